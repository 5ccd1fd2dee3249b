package lab

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/awillows/win365-lab-builder/client/query"
	"github.com/awillows/win365-lab-builder/internal/glob"
	"github.com/awillows/win365-lab-builder/models/azure"
)

// EnsureGroup creates a security group, or returns the existing one
// unchanged when a group with the same display name is already present.
// The second return reports whether a group was created.
func (s *Orchestrator) EnsureGroup(ctx context.Context, name, description string) (*azure.Group, bool, error) {
	log := zerolog.Ctx(ctx)

	existing, err := s.client.GetGroupByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		log.Warn().Str("group", name).Msg("group already exists, returning existing group")
		return existing, false, nil
	}

	if s.dryRun {
		log.Info().Str("group", name).Msg("dry-run: would create group")
		return &azure.Group{DisplayName: name, Description: description}, true, nil
	}

	created, err := s.client.CreateGroup(ctx, azure.NewGroup{
		DisplayName:     name,
		Description:     description,
		MailEnabled:     false,
		MailNickname:    mailNickname(name),
		SecurityEnabled: true,
		GroupTypes:      []string{},
	})
	if err != nil {
		return nil, false, err
	}
	log.Info().Str("group", name).Str("id", created.ID).Msg("group created")
	return created, true, nil
}

// mailNickname derives a directory-safe nickname from a display name. A
// short uuid suffix keeps nicknames unique across groups whose names
// sanitize to the same string.
func mailNickname(displayName string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(displayName) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	nickname := sb.String()
	if len(nickname) > 40 {
		nickname = nickname[:40]
	}
	if nickname == "" {
		nickname = "labgroup"
	}
	return nickname + "-" + uuid.NewString()[:8]
}

// AddUserToGroup resolves both sides and creates the membership edge. A
// missing user or group is a hard error.
func (s *Orchestrator) AddUserToGroup(ctx context.Context, userPrincipalName, groupIdOrName string) error {
	user, err := s.client.GetUserByPrincipalName(ctx, userPrincipalName)
	if err != nil {
		return fmt.Errorf("user %s not found: %w", userPrincipalName, err)
	}
	group, err := s.resolveGroup(ctx, groupIdOrName)
	if err != nil {
		return err
	}
	if s.dryRun {
		zerolog.Ctx(ctx).Info().
			Str("user", userPrincipalName).
			Str("group", group.DisplayName).
			Msg("dry-run: would add user to group")
		return nil
	}
	return s.client.AddGroupMember(ctx, group.ID, user.ID)
}

// resolveGroup accepts either an object id or a display name.
func (s *Orchestrator) resolveGroup(ctx context.Context, idOrName string) (*azure.Group, error) {
	if isObjectID(idOrName) {
		group, err := s.client.GetGroup(ctx, idOrName)
		if err != nil {
			return nil, fmt.Errorf("group %s not found: %w", idOrName, err)
		}
		return group, nil
	}
	group, err := s.client.GetGroupByName(ctx, idOrName)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("group %q not found", idOrName)
	}
	return group, nil
}

type RemoveGroupsOptions struct {
	// NamePattern is a glob matched against group display names.
	NamePattern string

	Confirm ConfirmFunc
}

// RemoveGroups deletes every group whose display name matches the pattern,
// tolerating per-item failure.
func (s *Orchestrator) RemoveGroups(ctx context.Context, opts RemoveGroupsOptions) (*BatchReport, error) {
	log := zerolog.Ctx(ctx)

	groups, err := s.ListGroups(ctx, opts.NamePattern)
	if err != nil {
		return nil, err
	}

	report := &BatchReport{}
	if len(groups) == 0 {
		log.Info().Str("pattern", opts.NamePattern).Msg("no matching groups")
		return report, nil
	}

	names := make([]string, len(groups))
	for i, group := range groups {
		names[i] = group.DisplayName
	}
	if s.dryRun {
		for _, name := range names {
			log.Info().Str("group", name).Msg("dry-run: would remove group")
		}
		return report, nil
	}
	if !s.confirmed(opts.Confirm, names) {
		log.Info().Msg("removal cancelled")
		return report, nil
	}

	for _, group := range groups {
		if err := s.client.DeleteGroup(ctx, group.ID); err != nil {
			log.Warn().Err(err).Str("group", group.DisplayName).Msg("group removal failed")
			report.fail(group.DisplayName, err)
			continue
		}
		report.ok(group.DisplayName)
	}
	log.Info().Str("summary", report.Summary()).Msg("group removal finished")
	return report, nil
}

// ListGroups returns groups whose display name matches the glob pattern, or
// all groups when the pattern is empty.
func (s *Orchestrator) ListGroups(ctx context.Context, namePattern string) ([]azure.Group, error) {
	match := func(string) bool { return true }
	if namePattern != "" {
		var err error
		if match, err = glob.Compile(namePattern); err != nil {
			return nil, err
		}
	}

	var groups []azure.Group
	for result := range s.client.ListGroups(ctx, query.GraphParams{}) {
		if result.Error != nil {
			return nil, result.Error
		}
		if match(result.Ok.DisplayName) {
			groups = append(groups, result.Ok)
		}
	}
	return groups, nil
}
