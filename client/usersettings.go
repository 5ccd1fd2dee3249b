package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/awillows/win365-lab-builder/client/query"
	"github.com/awillows/win365-lab-builder/client/rest"
	"github.com/awillows/win365-lab-builder/models/azure"
)

const userSettingsPath = virtualEndpoint + "/userSettings"

func (s *graphClient) CreateUserSetting(ctx context.Context, setting azure.NewCloudPcUserSetting) (*azure.CloudPcUserSetting, error) {
	if rp := setting.RestorePointSetting; rp != nil {
		if rp.FrequencyInHours < azure.RestorePointFrequencyMin || rp.FrequencyInHours > azure.RestorePointFrequencyMax {
			return nil, fmt.Errorf("user setting %s: restore point frequency must be between %d and %d hours, got %d",
				setting.DisplayName, azure.RestorePointFrequencyMin, azure.RestorePointFrequencyMax, rp.FrequencyInHours)
		}
	}
	res, err := s.msgraph.Post(ctx, userSettingsPath, setting)
	if err != nil {
		return nil, fmt.Errorf("creating user setting %s: %w", setting.DisplayName, err)
	}
	var created azure.CloudPcUserSetting
	if err := rest.Decode(res.Body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *graphClient) GetUserSetting(ctx context.Context, id string, expandAssignments bool) (*azure.CloudPcUserSetting, error) {
	path := fmt.Sprintf("%s/%s", userSettingsPath, url.PathEscape(id))
	params := query.GraphParams{}
	if expandAssignments {
		params.Expand = "assignments"
	}
	res, err := s.msgraph.Get(ctx, path, params, nil)
	if err != nil {
		return nil, err
	}
	var setting azure.CloudPcUserSetting
	if err := rest.Decode(res.Body, &setting); err != nil {
		return nil, err
	}
	return &setting, nil
}

// GetUserSettingByName resolves a user setting by exact display name,
// matched client-side. Returns (nil, nil) when absent.
func (s *graphClient) GetUserSettingByName(ctx context.Context, displayName string) (*azure.CloudPcUserSetting, error) {
	settings, err := drainGraphObjectList[azure.CloudPcUserSetting](s.msgraph, ctx, userSettingsPath, query.GraphParams{})
	if err != nil {
		return nil, fmt.Errorf("looking up user setting %q: %w", displayName, err)
	}
	for i := range settings {
		if settings[i].DisplayName == displayName {
			return &settings[i], nil
		}
	}
	return nil, nil
}

func (s *graphClient) ListUserSettings(ctx context.Context, params query.GraphParams) <-chan GraphResult[azure.CloudPcUserSetting] {
	out := make(chan GraphResult[azure.CloudPcUserSetting])
	go getGraphObjectList(s.msgraph, ctx, userSettingsPath, params, out)
	return out
}

func (s *graphClient) DeleteUserSetting(ctx context.Context, id string) error {
	path := fmt.Sprintf("%s/%s", userSettingsPath, url.PathEscape(id))
	res, err := s.msgraph.Delete(ctx, path, nil, nil)
	if err != nil {
		return fmt.Errorf("deleting user setting %s: %w", id, err)
	}
	return res.Body.Close()
}

// SetUserSettingAssignment replaces the assignment list wholesale with the
// given group set. Callers pass the full desired set; unlike provisioning
// policy assignment there is no read-merge step. The asymmetry matches the
// service's observable behavior for the two resource types.
func (s *graphClient) SetUserSettingAssignment(ctx context.Context, settingId string, groupIds []string) error {
	assignments := make([]azure.PolicyAssignment, 0, len(groupIds))
	for _, groupId := range groupIds {
		assignments = append(assignments, azure.GroupAssignment(groupId))
	}
	path := fmt.Sprintf("%s/%s/assign", userSettingsPath, url.PathEscape(settingId))
	res, err := s.msgraph.Post(ctx, path, azure.AssignmentRequest{Assignments: assignments})
	if err != nil {
		return fmt.Errorf("assigning user setting %s: %w", settingId, err)
	}
	return res.Body.Close()
}

func (s *graphClient) ClearUserSettingAssignment(ctx context.Context, settingId string) error {
	return s.SetUserSettingAssignment(ctx, settingId, nil)
}
