package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/awillows/win365-lab-builder/client/query"
	"github.com/awillows/win365-lab-builder/client/rest"
	"github.com/awillows/win365-lab-builder/models/azure"
)

func (s *graphClient) CreateUser(ctx context.Context, user azure.NewUser) (*azure.User, error) {
	res, err := s.msgraph.Post(ctx, graphV1+"/users", user)
	if err != nil {
		return nil, fmt.Errorf("creating user %s: %w", user.UserPrincipalName, err)
	}
	var created azure.User
	if err := rest.Decode(res.Body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetUserByPrincipalName resolves one user by UPN. Absence surfaces as a
// not-found GraphError; use rest.IsNotFound to distinguish it.
func (s *graphClient) GetUserByPrincipalName(ctx context.Context, userPrincipalName string) (*azure.User, error) {
	path := fmt.Sprintf("%s/users/%s", graphV1, url.PathEscape(userPrincipalName))
	params := query.GraphParams{
		Select: []string{"id", "displayName", "userPrincipalName", "accountEnabled", "usageLocation", "mailNickname"},
	}
	res, err := s.msgraph.Get(ctx, path, params, nil)
	if err != nil {
		return nil, err
	}
	var user azure.User
	if err := rest.Decode(res.Body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *graphClient) DeleteUser(ctx context.Context, id string) error {
	path := fmt.Sprintf("%s/users/%s", graphV1, url.PathEscape(id))
	res, err := s.msgraph.Delete(ctx, path, nil, nil)
	if err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	return res.Body.Close()
}

func (s *graphClient) ListUsers(ctx context.Context, params query.GraphParams) <-chan GraphResult[azure.User] {
	out := make(chan GraphResult[azure.User])
	if len(params.Select) == 0 {
		params.Select = []string{"id", "displayName", "userPrincipalName", "accountEnabled", "usageLocation"}
	}
	go getGraphObjectList(s.msgraph, ctx, graphV1+"/users", params, out)
	return out
}
