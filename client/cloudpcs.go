package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/awillows/win365-lab-builder/client/query"
	"github.com/awillows/win365-lab-builder/models/azure"
)

const cloudPCsPath = virtualEndpoint + "/cloudPCs"

func (s *graphClient) ListCloudPCs(ctx context.Context, params query.GraphParams) <-chan GraphResult[azure.CloudPC] {
	out := make(chan GraphResult[azure.CloudPC])
	go getGraphObjectList(s.msgraph, ctx, cloudPCsPath, params, out)
	return out
}

// EndGracePeriod ends the retention window on a deprovisioned Cloud PC so
// its license frees up immediately.
func (s *graphClient) EndGracePeriod(ctx context.Context, cloudPcId string) error {
	path := fmt.Sprintf("%s/%s/endGracePeriod", cloudPCsPath, url.PathEscape(cloudPcId))
	res, err := s.msgraph.Post(ctx, path, nil)
	if err != nil {
		return fmt.Errorf("ending grace period on cloud pc %s: %w", cloudPcId, err)
	}
	return res.Body.Close()
}
