package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/awillows/win365-lab-builder/client/query"
	"github.com/awillows/win365-lab-builder/client/rest"
	"github.com/awillows/win365-lab-builder/models/azure"
)

func (s *graphClient) CreateGroup(ctx context.Context, group azure.NewGroup) (*azure.Group, error) {
	res, err := s.msgraph.Post(ctx, graphV1+"/groups", group)
	if err != nil {
		return nil, fmt.Errorf("creating group %s: %w", group.DisplayName, err)
	}
	var created azure.Group
	if err := rest.Decode(res.Body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *graphClient) GetGroup(ctx context.Context, id string) (*azure.Group, error) {
	path := fmt.Sprintf("%s/groups/%s", graphV1, url.PathEscape(id))
	res, err := s.msgraph.Get(ctx, path, nil, nil)
	if err != nil {
		return nil, err
	}
	var group azure.Group
	if err := rest.Decode(res.Body, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// GetGroupByName resolves a group by exact display name. Returns (nil, nil)
// when no group matches; duplicate names resolve to the first match.
func (s *graphClient) GetGroupByName(ctx context.Context, displayName string) (*azure.Group, error) {
	params := query.GraphParams{
		Filter: fmt.Sprintf("displayName eq '%s'", query.Escape(displayName)),
	}
	groups, err := drainGraphObjectList[azure.Group](s.msgraph, ctx, graphV1+"/groups", params)
	if err != nil {
		return nil, fmt.Errorf("looking up group %q: %w", displayName, err)
	}
	if len(groups) == 0 {
		return nil, nil
	}
	return &groups[0], nil
}

func (s *graphClient) DeleteGroup(ctx context.Context, id string) error {
	path := fmt.Sprintf("%s/groups/%s", graphV1, url.PathEscape(id))
	res, err := s.msgraph.Delete(ctx, path, nil, nil)
	if err != nil {
		return fmt.Errorf("deleting group %s: %w", id, err)
	}
	return res.Body.Close()
}

func (s *graphClient) ListGroups(ctx context.Context, params query.GraphParams) <-chan GraphResult[azure.Group] {
	out := make(chan GraphResult[azure.Group])
	go getGraphObjectList(s.msgraph, ctx, graphV1+"/groups", params, out)
	return out
}

// AddGroupMember creates the membership edge via the $ref sub-resource. The
// member must be referenced by object id, not UPN.
func (s *graphClient) AddGroupMember(ctx context.Context, groupId, memberId string) error {
	path := fmt.Sprintf("%s/groups/%s/members/$ref", graphV1, url.PathEscape(groupId))
	body := map[string]string{
		"@odata.id": fmt.Sprintf("https://graph.microsoft.com/v1.0/directoryObjects/%s", memberId),
	}
	res, err := s.msgraph.Post(ctx, path, body)
	if err != nil {
		return fmt.Errorf("adding member %s to group %s: %w", memberId, groupId, err)
	}
	return res.Body.Close()
}

func (s *graphClient) ListGroupMembers(ctx context.Context, groupId string, params query.GraphParams) <-chan GraphResult[azure.DirectoryObject] {
	out := make(chan GraphResult[azure.DirectoryObject])
	path := fmt.Sprintf("%s/groups/%s/members", graphV1, url.PathEscape(groupId))
	go getGraphObjectList(s.msgraph, ctx, path, params, out)
	return out
}

func (s *graphClient) GetGroupAssignedLicenses(ctx context.Context, groupId string) ([]azure.AssignedLicense, error) {
	path := fmt.Sprintf("%s/groups/%s", graphV1, url.PathEscape(groupId))
	res, err := s.msgraph.Get(ctx, path, query.GraphParams{Select: []string{"id", "assignedLicenses"}}, nil)
	if err != nil {
		return nil, fmt.Errorf("reading licenses on group %s: %w", groupId, err)
	}
	var group struct {
		AssignedLicenses []azure.AssignedLicense `json:"assignedLicenses"`
	}
	if err := rest.Decode(res.Body, &group); err != nil {
		return nil, err
	}
	return group.AssignedLicenses, nil
}

// AssignGroupLicense applies adds and removes in a single assignLicense
// call. Licenses not named in either list are left untouched; the service
// propagates the change to current and future members asynchronously.
func (s *graphClient) AssignGroupLicense(ctx context.Context, groupId string, add []azure.AssignedLicense, remove []uuid.UUID) error {
	if add == nil {
		add = []azure.AssignedLicense{}
	}
	if remove == nil {
		remove = []uuid.UUID{}
	}
	path := fmt.Sprintf("%s/groups/%s/assignLicense", graphV1, url.PathEscape(groupId))
	res, err := s.msgraph.Post(ctx, path, azure.LicenseAssignmentRequest{AddLicenses: add, RemoveLicenses: remove})
	if err != nil {
		return fmt.Errorf("assigning licenses on group %s: %w", groupId, err)
	}
	return res.Body.Close()
}
