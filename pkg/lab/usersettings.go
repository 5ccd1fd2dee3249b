package lab

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/awillows/win365-lab-builder/client/query"
	"github.com/awillows/win365-lab-builder/internal/glob"
	"github.com/awillows/win365-lab-builder/models/azure"
)

type CreateUserSettingsOptions struct {
	Name        string
	Description string

	EnableLocalAdmin          bool
	DisableSelfServiceRestore bool

	// RestorePointFrequencyHours defaults to 12; the service accepts 4-24.
	RestorePointFrequencyHours int
}

// EnsureUserSettings creates a Cloud PC user-settings policy, or returns
// the existing one unchanged when the name is already taken.
func (s *Orchestrator) EnsureUserSettings(ctx context.Context, opts CreateUserSettingsOptions) (*azure.CloudPcUserSetting, bool, error) {
	log := zerolog.Ctx(ctx)
	if opts.Name == "" {
		return nil, false, fmt.Errorf("user settings name is required")
	}
	frequency := opts.RestorePointFrequencyHours
	if frequency == 0 {
		frequency = azure.RestorePointFrequencyDefault
	}
	if frequency < azure.RestorePointFrequencyMin || frequency > azure.RestorePointFrequencyMax {
		return nil, false, fmt.Errorf("restore point frequency must be between %d and %d hours, got %d",
			azure.RestorePointFrequencyMin, azure.RestorePointFrequencyMax, frequency)
	}

	existing, err := s.client.GetUserSettingByName(ctx, opts.Name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		log.Warn().Str("userSettings", opts.Name).Msg("user settings already exist, returning existing policy")
		return existing, false, nil
	}

	if s.dryRun {
		log.Info().Str("userSettings", opts.Name).Msg("dry-run: would create user settings")
		return &azure.CloudPcUserSetting{DisplayName: opts.Name}, true, nil
	}

	created, err := s.client.CreateUserSetting(ctx, azure.NewCloudPcUserSetting{
		DisplayName:        opts.Name,
		Description:        opts.Description,
		LocalAdminEnabled:  opts.EnableLocalAdmin,
		SelfServiceEnabled: !opts.DisableSelfServiceRestore,
		RestorePointSetting: &azure.RestorePointSetting{
			FrequencyInHours:   frequency,
			UserRestoreEnabled: !opts.DisableSelfServiceRestore,
		},
	})
	if err != nil {
		return nil, false, err
	}
	log.Info().Str("userSettings", opts.Name).Str("id", created.ID).Msg("user settings created")
	return created, true, nil
}

type RemoveUserSettingsOptions struct {
	NamePattern string
	ID          string

	Confirm ConfirmFunc
}

// RemoveUserSettings deletes matching user-settings policies. Assignments
// are cleared best-effort before each delete.
func (s *Orchestrator) RemoveUserSettings(ctx context.Context, opts RemoveUserSettingsOptions) (*BatchReport, error) {
	log := zerolog.Ctx(ctx)
	if (opts.NamePattern == "") == (opts.ID == "") {
		return nil, fmt.Errorf("exactly one of name pattern or id is required")
	}

	var targets []azure.CloudPcUserSetting
	if opts.ID != "" {
		setting, err := s.client.GetUserSetting(ctx, opts.ID, false)
		if err != nil {
			return nil, fmt.Errorf("resolving user settings %s: %w", opts.ID, err)
		}
		targets = []azure.CloudPcUserSetting{*setting}
	} else {
		var err error
		if targets, err = s.ListUserSettings(ctx, opts.NamePattern); err != nil {
			return nil, err
		}
	}

	report := &BatchReport{}
	if len(targets) == 0 {
		log.Info().Msg("no matching user settings")
		return report, nil
	}

	names := make([]string, len(targets))
	for i, setting := range targets {
		names[i] = setting.DisplayName
	}
	if s.dryRun {
		for _, name := range names {
			log.Info().Str("userSettings", name).Msg("dry-run: would remove user settings")
		}
		return report, nil
	}
	if !s.confirmed(opts.Confirm, names) {
		log.Info().Msg("removal cancelled")
		return report, nil
	}

	for _, setting := range targets {
		if err := s.client.ClearUserSettingAssignment(ctx, setting.ID); err != nil {
			log.Warn().Err(err).Str("userSettings", setting.DisplayName).Msg("clearing assignments failed")
		}
		if err := s.client.DeleteUserSetting(ctx, setting.ID); err != nil {
			log.Warn().Err(err).Str("userSettings", setting.DisplayName).Msg("user settings removal failed")
			report.fail(setting.DisplayName, err)
			continue
		}
		report.ok(setting.DisplayName)
	}
	log.Info().Str("summary", report.Summary()).Msg("user settings removal finished")
	return report, nil
}

// ListUserSettings returns user-settings policies matching the glob
// pattern, or all of them when the pattern is empty.
func (s *Orchestrator) ListUserSettings(ctx context.Context, namePattern string) ([]azure.CloudPcUserSetting, error) {
	match := func(string) bool { return true }
	if namePattern != "" {
		var err error
		if match, err = glob.Compile(namePattern); err != nil {
			return nil, err
		}
	}

	var settings []azure.CloudPcUserSetting
	for result := range s.client.ListUserSettings(ctx, query.GraphParams{}) {
		if result.Error != nil {
			return nil, result.Error
		}
		if match(result.Ok.DisplayName) {
			settings = append(settings, result.Ok)
		}
	}
	return settings, nil
}

// AssignUserSettingsToGroups replaces the assignment list wholesale with
// the given groups, resolved by id or name. Callers pass the full desired
// set.
func (s *Orchestrator) AssignUserSettingsToGroups(ctx context.Context, settingId string, groupIdsOrNames []string) error {
	if len(groupIdsOrNames) == 0 {
		return fmt.Errorf("at least one group is required; use remove-assignment to clear")
	}
	groupIds := make([]string, 0, len(groupIdsOrNames))
	for _, idOrName := range groupIdsOrNames {
		group, err := s.resolveGroup(ctx, idOrName)
		if err != nil {
			return err
		}
		groupIds = append(groupIds, group.ID)
	}
	if s.dryRun {
		zerolog.Ctx(ctx).Info().
			Str("userSettings", settingId).
			Int("groups", len(groupIds)).
			Msg("dry-run: would replace user settings assignments")
		return nil
	}
	return s.client.SetUserSettingAssignment(ctx, settingId, groupIds)
}

// ClearUserSettingsAssignments removes every assignment from a user
// settings policy.
func (s *Orchestrator) ClearUserSettingsAssignments(ctx context.Context, settingId string, confirm ConfirmFunc) error {
	if s.dryRun {
		zerolog.Ctx(ctx).Info().Str("userSettings", settingId).Msg("dry-run: would clear user settings assignments")
		return nil
	}
	if !s.confirmed(confirm, []string{settingId}) {
		zerolog.Ctx(ctx).Info().Msg("clear cancelled")
		return nil
	}
	return s.client.ClearUserSettingAssignment(ctx, settingId)
}
