package lab

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awillows/win365-lab-builder/models/azure"
)

func TestEnsureUserSettingsDefaultFrequency(t *testing.T) {
	fake := newFakeGraphClient()
	setting, created, err := newTestOrchestrator(fake).EnsureUserSettings(context.Background(), CreateUserSettingsOptions{
		Name: "Lab Settings",
	})
	require.NoError(t, err)
	assert.True(t, created)

	stored := fake.settings[setting.DisplayName]
	require.NotNil(t, stored.RestorePointSetting)
	assert.Equal(t, azure.RestorePointFrequencyDefault, stored.RestorePointSetting.FrequencyInHours)
	assert.True(t, stored.SelfServiceEnabled)
	assert.False(t, stored.LocalAdminEnabled)
}

func TestEnsureUserSettingsRejectsOutOfRangeFrequency(t *testing.T) {
	for _, frequency := range []int{3, 25, -1} {
		fake := newFakeGraphClient()
		_, _, err := newTestOrchestrator(fake).EnsureUserSettings(context.Background(), CreateUserSettingsOptions{
			Name:                       "Lab Settings",
			RestorePointFrequencyHours: frequency,
		})
		require.Error(t, err)
		assert.Empty(t, fake.ops, "validation failures must not reach the service")
	}
}

func TestEnsureUserSettingsAcceptsBoundaryFrequencies(t *testing.T) {
	for _, frequency := range []int{azure.RestorePointFrequencyMin, azure.RestorePointFrequencyMax} {
		fake := newFakeGraphClient()
		setting, created, err := newTestOrchestrator(fake).EnsureUserSettings(context.Background(), CreateUserSettingsOptions{
			Name:                       "Lab Settings",
			RestorePointFrequencyHours: frequency,
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, frequency, fake.settings[setting.DisplayName].RestorePointSetting.FrequencyInHours)
	}
}

func TestEnsureUserSettingsIdempotentByName(t *testing.T) {
	fake := newFakeGraphClient()
	orchestrator := newTestOrchestrator(fake)

	first, created, err := orchestrator.EnsureUserSettings(context.Background(), CreateUserSettingsOptions{Name: "Lab Settings"})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := orchestrator.EnsureUserSettings(context.Background(), CreateUserSettingsOptions{Name: "Lab Settings"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, fake.opsWithPrefix("CreateUserSetting"), 1)
}

func TestEnsureUserSettingsLocalAdminAndRestoreToggles(t *testing.T) {
	fake := newFakeGraphClient()
	setting, _, err := newTestOrchestrator(fake).EnsureUserSettings(context.Background(), CreateUserSettingsOptions{
		Name:                      "Lab Settings",
		EnableLocalAdmin:          true,
		DisableSelfServiceRestore: true,
	})
	require.NoError(t, err)

	stored := fake.settings[setting.DisplayName]
	assert.True(t, stored.LocalAdminEnabled)
	assert.False(t, stored.SelfServiceEnabled)
	assert.False(t, stored.RestorePointSetting.UserRestoreEnabled)
}

func TestAssignUserSettingsReplacesWholesale(t *testing.T) {
	fake := newFakeGraphClient()
	groupA := fake.seedGroup("Lab Group A")
	groupB := fake.seedGroup("Lab Group B")
	orchestrator := newTestOrchestrator(fake)

	setting, _, err := orchestrator.EnsureUserSettings(context.Background(), CreateUserSettingsOptions{Name: "Lab Settings"})
	require.NoError(t, err)

	require.NoError(t, orchestrator.AssignUserSettingsToGroups(context.Background(), setting.ID, []string{"Lab Group A"}))
	assert.Equal(t, []string{groupA.ID}, fake.assignments[setting.ID])

	// The second call names only group B; group A is dropped, not merged.
	require.NoError(t, orchestrator.AssignUserSettingsToGroups(context.Background(), setting.ID, []string{"Lab Group B"}))
	assert.Equal(t, []string{groupB.ID}, fake.assignments[setting.ID])
}

func TestAssignUserSettingsRequiresGroups(t *testing.T) {
	fake := newFakeGraphClient()
	err := newTestOrchestrator(fake).AssignUserSettingsToGroups(context.Background(), "setting-1", nil)
	require.Error(t, err)
	assert.Empty(t, fake.ops)
}

func TestRemoveUserSettingsClearsAssignments(t *testing.T) {
	fake := newFakeGraphClient()
	orchestrator := newTestOrchestrator(fake)
	setting, _, err := orchestrator.EnsureUserSettings(context.Background(), CreateUserSettingsOptions{Name: "Lab Settings"})
	require.NoError(t, err)
	fake.assignments[setting.ID] = []string{"group-1"}

	report, err := orchestrator.RemoveUserSettings(context.Background(), RemoveUserSettingsOptions{
		NamePattern: "Lab Settings",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Lab Settings"}, report.Succeeded)
	assert.Empty(t, fake.assignments[setting.ID])
	assert.Empty(t, fake.settings)
}
