package lab

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/awillows/win365-lab-builder/client/query"
	"github.com/awillows/win365-lab-builder/client/rest"
	"github.com/awillows/win365-lab-builder/internal/password"
	"github.com/awillows/win365-lab-builder/models/azure"
)

const (
	maxUserCount   = 1000
	maxStartNumber = 9999
)

type CreateUsersOptions struct {
	Count       int
	Prefix      string
	StartNumber int // defaults to 1

	// Domain overrides the tenant default domain for principal names.
	Domain string

	// UsageLocation defaults to the configured value.
	UsageLocation string

	// FixedPassword uses one password for every user instead of a fresh
	// random one per user.
	FixedPassword string

	AddToLicenseGroup bool
	AddToRoleGroup    bool
}

func (o *CreateUsersOptions) validate() error {
	if o.Prefix == "" {
		return fmt.Errorf("user prefix is required")
	}
	if strings.ContainsAny(o.Prefix, " @") {
		return fmt.Errorf("user prefix %q must not contain spaces or '@'", o.Prefix)
	}
	if o.Count < 1 || o.Count > maxUserCount {
		return fmt.Errorf("user count must be between 1 and %d, got %d", maxUserCount, o.Count)
	}
	if o.StartNumber == 0 {
		o.StartNumber = 1
	}
	if o.StartNumber < 1 || o.StartNumber > maxStartNumber {
		return fmt.Errorf("start number must be between 1 and %d, got %d", maxStartNumber, o.StartNumber)
	}
	return nil
}

type CreateUsersResult struct {
	Report BatchReport

	// Credentials holds the plaintext passwords for users created in this
	// call. This is the only place they ever exist.
	Credentials []Credential
}

// CreateUsers provisions a numbered batch of lab users. Principal names
// follow {prefix}{n:03d}@{domain}. Existing users are skipped with a
// warning; per-user failures never abort the batch. Group membership side
// effects are best-effort.
func (s *Orchestrator) CreateUsers(ctx context.Context, opts CreateUsersOptions) (*CreateUsersResult, error) {
	log := zerolog.Ctx(ctx)
	if err := opts.validate(); err != nil {
		return nil, err
	}

	result := &CreateUsersResult{}

	if s.dryRun {
		domain := opts.Domain
		if domain == "" {
			domain = s.cfg.DefaultDomain
		}
		if domain == "" {
			domain = "<default-domain>"
		}
		for i := opts.StartNumber; i < opts.StartNumber+opts.Count; i++ {
			username := fmt.Sprintf("%s%03d", opts.Prefix, i)
			upn := fmt.Sprintf("%s@%s", username, domain)
			log.Info().Str("user", upn).Msg("dry-run: would create user")
			result.Report.ok(upn)
			// Password intentionally empty: nothing was created.
			result.Credentials = append(result.Credentials, Credential{
				DisplayName:       username,
				UserPrincipalName: upn,
				Username:          username,
			})
		}
		return result, nil
	}

	domain := opts.Domain
	if domain == "" {
		var err error
		if domain, err = s.client.DefaultDomain(ctx); err != nil {
			return nil, fmt.Errorf("resolving default domain: %w", err)
		}
	}
	usageLocation := opts.UsageLocation
	if usageLocation == "" {
		usageLocation = s.cfg.UsageLocation
	}

	// Resolve side-effect groups once, up front. A missing group degrades
	// the whole batch to a warning, not a failure.
	licenseGroup := s.resolveSideEffectGroup(ctx, opts.AddToLicenseGroup, s.cfg.LicenseGroupName)
	roleGroup := s.resolveSideEffectGroup(ctx, opts.AddToRoleGroup, s.cfg.RoleGroupName)

	for i := opts.StartNumber; i < opts.StartNumber+opts.Count; i++ {
		username := fmt.Sprintf("%s%03d", opts.Prefix, i)
		upn := fmt.Sprintf("%s@%s", username, domain)

		existing, err := s.client.GetUserByPrincipalName(ctx, upn)
		if err != nil && !rest.IsNotFound(err) {
			log.Warn().Err(err).Str("user", upn).Msg("existence check failed")
			result.Report.fail(upn, err)
			continue
		}
		if existing != nil {
			log.Warn().Str("user", upn).Msg("user already exists, skipping")
			result.Report.skip(upn)
			continue
		}

		pw := opts.FixedPassword
		if pw == "" {
			if pw, err = password.Generate(); err != nil {
				result.Report.fail(upn, err)
				continue
			}
		}

		created, err := s.client.CreateUser(ctx, azure.NewUser{
			AccountEnabled:    true,
			DisplayName:       username,
			MailNickname:      username,
			UserPrincipalName: upn,
			UsageLocation:     usageLocation,
			PasswordProfile: azure.PasswordProfile{
				Password:                      pw,
				ForceChangePasswordNextSignIn: false,
			},
		})
		if err != nil {
			log.Warn().Err(err).Str("user", upn).Msg("user creation failed")
			result.Report.fail(upn, err)
			continue
		}

		result.Report.ok(upn)
		result.Credentials = append(result.Credentials, Credential{
			DisplayName:       created.DisplayName,
			UserPrincipalName: upn,
			Username:          username,
			Password:          pw,
		})

		s.addToGroupBestEffort(ctx, licenseGroup, created.ID, upn)
		s.addToGroupBestEffort(ctx, roleGroup, created.ID, upn)
	}

	log.Info().Str("summary", result.Report.Summary()).Msg("user batch finished")
	return result, nil
}

func (s *Orchestrator) resolveSideEffectGroup(ctx context.Context, enabled bool, name string) *azure.Group {
	if !enabled || name == "" {
		return nil
	}
	log := zerolog.Ctx(ctx)
	group, err := s.client.GetGroupByName(ctx, name)
	if err != nil {
		log.Warn().Err(err).Str("group", name).Msg("group lookup failed, membership side effects disabled")
		return nil
	}
	if group == nil {
		log.Warn().Str("group", name).Msg("group not found, membership side effects disabled")
	}
	return group
}

func (s *Orchestrator) addToGroupBestEffort(ctx context.Context, group *azure.Group, memberId, upn string) {
	if group == nil {
		return
	}
	if err := s.client.AddGroupMember(ctx, group.ID, memberId); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("user", upn).
			Str("group", group.DisplayName).
			Msg("adding user to group failed")
	}
}

type RemoveUsersOptions struct {
	// Prefix removes every user whose principal name starts with it.
	// PrincipalName removes exactly one user. One of the two is required.
	Prefix        string
	PrincipalName string

	Confirm ConfirmFunc
}

// RemoveUsers resolves the target set, gates on confirmation, then deletes
// each user, tolerating per-item failure.
func (s *Orchestrator) RemoveUsers(ctx context.Context, opts RemoveUsersOptions) (*BatchReport, error) {
	log := zerolog.Ctx(ctx)
	if (opts.Prefix == "") == (opts.PrincipalName == "") {
		return nil, fmt.Errorf("exactly one of prefix or principal name is required")
	}

	var targets []azure.User
	if opts.PrincipalName != "" {
		user, err := s.client.GetUserByPrincipalName(ctx, opts.PrincipalName)
		if err != nil {
			return nil, fmt.Errorf("resolving user %s: %w", opts.PrincipalName, err)
		}
		targets = []azure.User{*user}
	} else {
		var err error
		if targets, err = s.ListUsers(ctx, opts.Prefix); err != nil {
			return nil, err
		}
	}

	report := &BatchReport{}
	if len(targets) == 0 {
		log.Info().Msg("no matching users")
		return report, nil
	}

	names := make([]string, len(targets))
	for i, user := range targets {
		names[i] = user.UserPrincipalName
	}
	if s.dryRun {
		for _, upn := range names {
			log.Info().Str("user", upn).Msg("dry-run: would remove user")
		}
		return report, nil
	}
	if !s.confirmed(opts.Confirm, names) {
		log.Info().Msg("removal cancelled")
		return report, nil
	}

	for _, user := range targets {
		if err := s.client.DeleteUser(ctx, user.ID); err != nil {
			log.Warn().Err(err).Str("user", user.UserPrincipalName).Msg("user removal failed")
			report.fail(user.UserPrincipalName, err)
			continue
		}
		report.ok(user.UserPrincipalName)
	}
	log.Info().Str("summary", report.Summary()).Msg("user removal finished")
	return report, nil
}

// ListUsers returns users whose principal name starts with prefix, or all
// users when prefix is empty.
func (s *Orchestrator) ListUsers(ctx context.Context, prefix string) ([]azure.User, error) {
	params := query.GraphParams{}
	if prefix != "" {
		params.Filter = fmt.Sprintf("startswith(userPrincipalName,'%s')", query.Escape(prefix))
	}
	var users []azure.User
	for result := range s.client.ListUsers(ctx, params) {
		if result.Error != nil {
			return nil, result.Error
		}
		users = append(users, result.Ok)
	}
	return users, nil
}
