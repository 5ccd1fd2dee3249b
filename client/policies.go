package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/awillows/win365-lab-builder/client/query"
	"github.com/awillows/win365-lab-builder/client/rest"
	"github.com/awillows/win365-lab-builder/models/azure"
)

const provisioningPoliciesPath = virtualEndpoint + "/provisioningPolicies"

func (s *graphClient) CreateProvisioningPolicy(ctx context.Context, policy azure.NewProvisioningPolicy) (*azure.ProvisioningPolicy, error) {
	if len(policy.DomainJoinConfigurations) == 0 {
		return nil, fmt.Errorf("provisioning policy %s: at least one domain join configuration is required", policy.DisplayName)
	}
	res, err := s.msgraph.Post(ctx, provisioningPoliciesPath, policy)
	if err != nil {
		return nil, fmt.Errorf("creating provisioning policy %s: %w", policy.DisplayName, err)
	}
	var created azure.ProvisioningPolicy
	if err := rest.Decode(res.Body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *graphClient) GetProvisioningPolicy(ctx context.Context, id string, expandAssignments bool) (*azure.ProvisioningPolicy, error) {
	path := fmt.Sprintf("%s/%s", provisioningPoliciesPath, url.PathEscape(id))
	params := query.GraphParams{}
	if expandAssignments {
		params.Expand = "assignments"
	}
	res, err := s.msgraph.Get(ctx, path, params, nil)
	if err != nil {
		return nil, err
	}
	var policy azure.ProvisioningPolicy
	if err := rest.Decode(res.Body, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

// GetProvisioningPolicyByName resolves a policy by exact display name.
// The virtual endpoint does not support $filter on displayName, so the
// listing is matched client-side. Returns (nil, nil) when absent.
func (s *graphClient) GetProvisioningPolicyByName(ctx context.Context, displayName string) (*azure.ProvisioningPolicy, error) {
	policies, err := drainGraphObjectList[azure.ProvisioningPolicy](s.msgraph, ctx, provisioningPoliciesPath, query.GraphParams{})
	if err != nil {
		return nil, fmt.Errorf("looking up provisioning policy %q: %w", displayName, err)
	}
	for i := range policies {
		if policies[i].DisplayName == displayName {
			return &policies[i], nil
		}
	}
	return nil, nil
}

func (s *graphClient) ListProvisioningPolicies(ctx context.Context, params query.GraphParams) <-chan GraphResult[azure.ProvisioningPolicy] {
	out := make(chan GraphResult[azure.ProvisioningPolicy])
	go getGraphObjectList(s.msgraph, ctx, provisioningPoliciesPath, params, out)
	return out
}

func (s *graphClient) DeleteProvisioningPolicy(ctx context.Context, id string) error {
	path := fmt.Sprintf("%s/%s", provisioningPoliciesPath, url.PathEscape(id))
	res, err := s.msgraph.Delete(ctx, path, nil, nil)
	if err != nil {
		return fmt.Errorf("deleting provisioning policy %s: %w", id, err)
	}
	return res.Body.Close()
}

// SetProvisioningPolicyAssignment adds a group target to a policy. The
// assign action replaces the whole assignment list, so the existing
// assignments are read back first and the new target appended to them.
// Submitting only the new target would silently drop every prior assignment.
// Returns false without writing when the group is already assigned.
func (s *graphClient) SetProvisioningPolicyAssignment(ctx context.Context, policyId, groupId string) (bool, error) {
	policy, err := s.GetProvisioningPolicy(ctx, policyId, true)
	if err != nil {
		return false, fmt.Errorf("reading assignments on policy %s: %w", policyId, err)
	}

	merged := policy.Assignments
	for _, assignment := range merged {
		if assignment.Target.GroupID == groupId {
			zerolog.Ctx(ctx).Info().
				Str("policy", policyId).
				Str("group", groupId).
				Msg("group already assigned to provisioning policy, skipping")
			return false, nil
		}
	}
	merged = append(merged, azure.GroupAssignment(groupId))

	path := fmt.Sprintf("%s/%s/assign", provisioningPoliciesPath, url.PathEscape(policyId))
	res, err := s.msgraph.Post(ctx, path, azure.AssignmentRequest{Assignments: merged})
	if err != nil {
		return false, fmt.Errorf("assigning policy %s to group %s: %w", policyId, groupId, err)
	}
	return true, res.Body.Close()
}

func (s *graphClient) ClearProvisioningPolicyAssignments(ctx context.Context, policyId string) error {
	path := fmt.Sprintf("%s/%s/assign", provisioningPoliciesPath, url.PathEscape(policyId))
	res, err := s.msgraph.Post(ctx, path, azure.AssignmentRequest{Assignments: []azure.PolicyAssignment{}})
	if err != nil {
		return fmt.Errorf("clearing assignments on policy %s: %w", policyId, err)
	}
	return res.Body.Close()
}
