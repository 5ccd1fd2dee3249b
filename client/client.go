// Package client is the typed Microsoft Graph client behind the lab
// tooling: directory users and groups, group licensing, and the Cloud PC
// virtual endpoint (provisioning policies, user settings, instances).
package client

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"

	"github.com/awillows/win365-lab-builder/client/query"
	"github.com/awillows/win365-lab-builder/client/rest"
	"github.com/awillows/win365-lab-builder/config"
	"github.com/awillows/win365-lab-builder/models/azure"
)

const (
	graphV1         = "/v1.0"
	virtualEndpoint = "/beta/deviceManagement/virtualEndpoint"
)

func NewClient(cfg config.Config) (GraphClient, error) {
	msgraph, err := rest.NewRestClient(cfg.GraphURL(), cfg)
	if err != nil {
		return nil, err
	}
	return &graphClient{msgraph: msgraph, defaultDomain: cfg.DefaultDomain}, nil
}

// NewClientWithRestClient wires the Graph client over a caller-supplied REST
// core. Tests inject a fake transport here.
func NewClientWithRestClient(msgraph rest.RestClient) GraphClient {
	return &graphClient{msgraph: msgraph}
}

// GraphResult carries one element of a paged listing, or the error that
// ended the stream.
type GraphResult[T any] struct {
	Error error
	Ok    T
}

// DirectoryClient covers the v1.0 directory surface: users, groups,
// membership and licensing.
type DirectoryClient interface {
	CreateUser(ctx context.Context, user azure.NewUser) (*azure.User, error)
	GetUserByPrincipalName(ctx context.Context, userPrincipalName string) (*azure.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context, params query.GraphParams) <-chan GraphResult[azure.User]

	CreateGroup(ctx context.Context, group azure.NewGroup) (*azure.Group, error)
	GetGroup(ctx context.Context, id string) (*azure.Group, error)
	GetGroupByName(ctx context.Context, displayName string) (*azure.Group, error)
	DeleteGroup(ctx context.Context, id string) error
	ListGroups(ctx context.Context, params query.GraphParams) <-chan GraphResult[azure.Group]
	AddGroupMember(ctx context.Context, groupId, memberId string) error
	ListGroupMembers(ctx context.Context, groupId string, params query.GraphParams) <-chan GraphResult[azure.DirectoryObject]

	GetGroupAssignedLicenses(ctx context.Context, groupId string) ([]azure.AssignedLicense, error)
	AssignGroupLicense(ctx context.Context, groupId string, add []azure.AssignedLicense, remove []uuid.UUID) error
	ListSubscribedSkus(ctx context.Context, params query.GraphParams) <-chan GraphResult[azure.SubscribedSku]
}

// VirtualEndpointClient covers the beta Cloud PC surface.
type VirtualEndpointClient interface {
	CreateProvisioningPolicy(ctx context.Context, policy azure.NewProvisioningPolicy) (*azure.ProvisioningPolicy, error)
	GetProvisioningPolicy(ctx context.Context, id string, expandAssignments bool) (*azure.ProvisioningPolicy, error)
	GetProvisioningPolicyByName(ctx context.Context, displayName string) (*azure.ProvisioningPolicy, error)
	ListProvisioningPolicies(ctx context.Context, params query.GraphParams) <-chan GraphResult[azure.ProvisioningPolicy]
	DeleteProvisioningPolicy(ctx context.Context, id string) error
	SetProvisioningPolicyAssignment(ctx context.Context, policyId, groupId string) (bool, error)
	ClearProvisioningPolicyAssignments(ctx context.Context, policyId string) error

	CreateUserSetting(ctx context.Context, setting azure.NewCloudPcUserSetting) (*azure.CloudPcUserSetting, error)
	GetUserSetting(ctx context.Context, id string, expandAssignments bool) (*azure.CloudPcUserSetting, error)
	GetUserSettingByName(ctx context.Context, displayName string) (*azure.CloudPcUserSetting, error)
	ListUserSettings(ctx context.Context, params query.GraphParams) <-chan GraphResult[azure.CloudPcUserSetting]
	DeleteUserSetting(ctx context.Context, id string) error
	SetUserSettingAssignment(ctx context.Context, settingId string, groupIds []string) error
	ClearUserSettingAssignment(ctx context.Context, settingId string) error

	ListCloudPCs(ctx context.Context, params query.GraphParams) <-chan GraphResult[azure.CloudPC]
	EndGracePeriod(ctx context.Context, cloudPcId string) error
}

type GraphClient interface {
	DirectoryClient
	VirtualEndpointClient

	TestConnection(ctx context.Context) bool
	DefaultDomain(ctx context.Context) (string, error)
	CloseIdleConnections()
}

type graphClient struct {
	msgraph rest.RestClient

	mu            sync.Mutex
	defaultDomain string
}

// TestConnection performs one cheap read. Any failure reports as not
// connected; it never panics or aborts.
func (s *graphClient) TestConnection(ctx context.Context) bool {
	res, err := s.msgraph.Get(ctx, graphV1+"/organization", query.GraphParams{Select: []string{"id"}}, nil)
	if err != nil {
		return false
	}
	_ = res.Body.Close()
	return res.StatusCode == http.StatusOK
}

// DefaultDomain returns the tenant default verified domain, cached after the
// first lookup.
func (s *graphClient) DefaultDomain(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.defaultDomain != "" {
		return s.defaultDomain, nil
	}

	res, err := s.msgraph.Get(ctx, graphV1+"/organization", query.GraphParams{Select: []string{"id", "verifiedDomains"}}, nil)
	if err != nil {
		return "", err
	}
	var list struct {
		Value []azure.Organization `json:"value"`
	}
	if err := rest.Decode(res.Body, &list); err != nil {
		return "", err
	}
	for _, org := range list.Value {
		if domain := org.DefaultDomain(); domain != "" {
			s.defaultDomain = domain
			return domain, nil
		}
	}
	return "", &rest.GraphError{StatusCode: http.StatusNotFound, Code: "NoVerifiedDomain", Message: "tenant has no default verified domain"}
}

func (s *graphClient) CloseIdleConnections() {
	s.msgraph.CloseIdleConnections()
}

// getGraphObjectList streams a paged Graph collection into out, following
// @odata.nextLink until exhausted. The channel is closed when the stream
// ends, whether by completion, error or context cancellation.
func getGraphObjectList[T any](client rest.RestClient, ctx context.Context, path string, params query.Params, out chan GraphResult[T]) {
	defer close(out)

	var (
		errResult GraphResult[T]
		nextLink  string
	)

	for {
		var (
			list struct {
				CountGraph    int    `json:"@odata.count,omitempty"`
				NextLinkGraph string `json:"@odata.nextLink,omitempty"`
				ContextGraph  string `json:"@odata.context,omitempty"`
				Value         []T    `json:"value"`
			}
			res *http.Response
			err error
		)

		if nextLink != "" {
			if nextUrl, err := url.Parse(nextLink); err != nil {
				errResult.Error = err
				_ = send(ctx.Done(), out, errResult)
				return
			} else if req, err := rest.NewRequest(ctx, http.MethodGet, nextUrl, nil, nil, nil); err != nil {
				errResult.Error = err
				_ = send(ctx.Done(), out, errResult)
				return
			} else if res, err = client.Send(req); err != nil {
				errResult.Error = err
				_ = send(ctx.Done(), out, errResult)
				return
			}
		} else {
			if res, err = client.Get(ctx, path, params, nil); err != nil {
				errResult.Error = err
				_ = send(ctx.Done(), out, errResult)
				return
			}
		}

		if err := rest.Decode(res.Body, &list); err != nil {
			errResult.Error = err
			_ = send(ctx.Done(), out, errResult)
			return
		}
		for _, item := range list.Value {
			if ok := send(ctx.Done(), out, GraphResult[T]{Ok: item}); !ok {
				return
			}
		}

		if list.NextLinkGraph == "" {
			break
		}
		nextLink = list.NextLinkGraph
	}
}

// drainGraphObjectList collects a paged listing into a slice, failing on the
// first stream error.
func drainGraphObjectList[T any](client rest.RestClient, ctx context.Context, path string, params query.Params) ([]T, error) {
	out := make(chan GraphResult[T])
	go getGraphObjectList(client, ctx, path, params, out)

	var items []T
	for result := range out {
		if result.Error != nil {
			return nil, result.Error
		}
		items = append(items, result.Ok)
	}
	return items, nil
}

func send[T any](done <-chan struct{}, ch chan<- GraphResult[T], result GraphResult[T]) bool {
	select {
	case ch <- result:
		return true
	case <-done:
		return false
	}
}
