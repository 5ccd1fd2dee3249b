package client

import (
	"context"

	"github.com/awillows/win365-lab-builder/client/query"
	"github.com/awillows/win365-lab-builder/models/azure"
)

// ListSubscribedSkus streams the tenant license catalog. The endpoint does
// not support $filter; callers filter client-side.
func (s *graphClient) ListSubscribedSkus(ctx context.Context, params query.GraphParams) <-chan GraphResult[azure.SubscribedSku] {
	out := make(chan GraphResult[azure.SubscribedSku])
	go getGraphObjectList(s.msgraph, ctx, graphV1+"/subscribedSkus", params, out)
	return out
}
