package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awillows/win365-lab-builder/models/azure"
)

func TestSetProvisioningPolicyAssignmentMergesExisting(t *testing.T) {
	fake := newFakeRestClient(t)
	policyPath := provisioningPoliciesPath + "/policy-1"
	fake.stub(http.MethodGet, policyPath, azure.ProvisioningPolicy{
		Entity:      azure.Entity{ID: "policy-1"},
		DisplayName: "Lab Policy",
		Assignments: []azure.PolicyAssignment{azure.GroupAssignment("group-a")},
	})
	c := NewClientWithRestClient(fake)

	added, err := c.SetProvisioningPolicyAssignment(context.Background(), "policy-1", "group-b")
	require.NoError(t, err)
	assert.True(t, added)

	posts := fake.callsTo(http.MethodPost, policyPath+"/assign")
	require.Len(t, posts, 1)
	body, ok := posts[0].body.(azure.AssignmentRequest)
	require.True(t, ok, "assign body should be an AssignmentRequest")
	require.Len(t, body.Assignments, 2, "existing assignment must survive the write")

	var groups []string
	for _, assignment := range body.Assignments {
		groups = append(groups, assignment.Target.GroupID)
	}
	assert.Contains(t, groups, "group-a")
	assert.Contains(t, groups, "group-b")
}

func TestSetProvisioningPolicyAssignmentSkipsAlreadyAssigned(t *testing.T) {
	fake := newFakeRestClient(t)
	policyPath := provisioningPoliciesPath + "/policy-1"
	fake.stub(http.MethodGet, policyPath, azure.ProvisioningPolicy{
		Entity:      azure.Entity{ID: "policy-1"},
		Assignments: []azure.PolicyAssignment{azure.GroupAssignment("group-a")},
	})
	c := NewClientWithRestClient(fake)

	added, err := c.SetProvisioningPolicyAssignment(context.Background(), "policy-1", "group-a")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Empty(t, fake.callsTo(http.MethodPost, policyPath+"/assign"), "no write when the group is already assigned")
}

func TestSetProvisioningPolicyAssignmentReadsWithExpand(t *testing.T) {
	fake := newFakeRestClient(t)
	policyPath := provisioningPoliciesPath + "/policy-1"
	fake.stub(http.MethodGet, policyPath, azure.ProvisioningPolicy{Entity: azure.Entity{ID: "policy-1"}})
	c := NewClientWithRestClient(fake)

	_, err := c.SetProvisioningPolicyAssignment(context.Background(), "policy-1", "group-a")
	require.NoError(t, err)

	gets := fake.callsTo(http.MethodGet, policyPath)
	require.Len(t, gets, 1)
	assert.Equal(t, "assignments", gets[0].params.AsMap()["$expand"])
}

func TestClearProvisioningPolicyAssignments(t *testing.T) {
	fake := newFakeRestClient(t)
	c := NewClientWithRestClient(fake)

	err := c.ClearProvisioningPolicyAssignments(context.Background(), "policy-1")
	require.NoError(t, err)

	posts := fake.callsTo(http.MethodPost, provisioningPoliciesPath+"/policy-1/assign")
	require.Len(t, posts, 1)
	body, ok := posts[0].body.(azure.AssignmentRequest)
	require.True(t, ok)
	assert.NotNil(t, body.Assignments)
	assert.Empty(t, body.Assignments)
}

func TestCreateProvisioningPolicyRequiresDomainJoin(t *testing.T) {
	fake := newFakeRestClient(t)
	c := NewClientWithRestClient(fake)

	_, err := c.CreateProvisioningPolicy(context.Background(), azure.NewProvisioningPolicy{DisplayName: "Lab Policy"})
	require.Error(t, err)
	assert.Empty(t, fake.calls, "validation must run before any request")
}

func TestGetProvisioningPolicyByName(t *testing.T) {
	fake := newFakeRestClient(t)
	fake.stub(http.MethodGet, provisioningPoliciesPath, map[string]interface{}{
		"value": []azure.ProvisioningPolicy{
			{Entity: azure.Entity{ID: "p1"}, DisplayName: "Lab Policy - alpha"},
			{Entity: azure.Entity{ID: "p2"}, DisplayName: "Lab Policy - beta"},
		},
	})
	c := NewClientWithRestClient(fake)

	policy, err := c.GetProvisioningPolicyByName(context.Background(), "Lab Policy - beta")
	require.NoError(t, err)
	require.NotNil(t, policy)
	assert.Equal(t, "p2", policy.ID)

	missing, err := c.GetProvisioningPolicyByName(context.Background(), "no such policy")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
