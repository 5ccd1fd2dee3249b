package lab

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/awillows/win365-lab-builder/models/azure"
)

// Lab resource naming conventions. RemoveEnvironment matches on these, so
// changing one orphans resources created under the old name.
func sharedGroupName(prefix string) string {
	return "Lab Shared Group - " + prefix
}

func individualGroupName(username string) string {
	return "Lab Group for " + username
}

func environmentPolicyName(prefix string) string {
	return "Lab Policy - " + prefix
}

type EnvironmentOptions struct {
	UserCount int
	Prefix    string

	// IndividualGroups creates one group per user; SharedGroup creates a
	// single group holding every user. Requesting both is a validation
	// error; neither means no groups.
	IndividualGroups bool
	SharedGroup      bool

	CreatePolicy bool
	AssignPolicy bool

	// Policy settings, used only when CreatePolicy is set.
	DomainJoin         DomainJoin
	ImageID            string
	EnableSingleSignOn bool

	// User batch overrides, passed through to CreateUsers.
	Domain        string
	FixedPassword string
}

func (o EnvironmentOptions) validate() error {
	if o.IndividualGroups && o.SharedGroup {
		return fmt.Errorf("individual and shared group modes are mutually exclusive")
	}
	if o.AssignPolicy && !o.CreatePolicy {
		return fmt.Errorf("policy assignment requires policy creation")
	}
	return nil
}

type EnvironmentResult struct {
	Users       CreateUsersResult
	Groups      []azure.Group
	GroupReport BatchReport

	Policy           *azure.ProvisioningPolicy
	AssignmentReport BatchReport

	Duration time.Duration
}

// Counts returns the number of users, groups and policies created.
func (r EnvironmentResult) Counts() (users, groups, policies int) {
	users = len(r.Users.Report.Succeeded)
	groups = len(r.Groups)
	if r.Policy != nil {
		policies = 1
	}
	return users, groups, policies
}

// CreateEnvironment provisions a full lab: users, groups per the selected
// mode, at most one provisioning policy, and policy assignments. The
// pipeline is linear and best-effort: per-item failures inside each stage
// degrade to warnings, and there is no rollback; partial failure leaves
// partial state.
func (s *Orchestrator) CreateEnvironment(ctx context.Context, opts EnvironmentOptions) (*EnvironmentResult, error) {
	log := zerolog.Ctx(ctx)
	if err := opts.validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	result := &EnvironmentResult{}

	users, err := s.CreateUsers(ctx, CreateUsersOptions{
		Count:             opts.UserCount,
		Prefix:            opts.Prefix,
		Domain:            opts.Domain,
		FixedPassword:     opts.FixedPassword,
		AddToLicenseGroup: true,
		AddToRoleGroup:    true,
	})
	if err != nil {
		return nil, err
	}
	result.Users = *users

	switch {
	case opts.IndividualGroups:
		s.createIndividualGroups(ctx, users.Credentials, result)
	case opts.SharedGroup:
		s.createSharedGroup(ctx, opts.Prefix, users.Credentials, result)
	}

	if opts.CreatePolicy {
		policy, _, err := s.EnsurePolicy(ctx, CreatePolicyOptions{
			Name:               environmentPolicyName(opts.Prefix),
			Description:        fmt.Sprintf("Provisioning policy for lab environment %q", opts.Prefix),
			DomainJoin:         opts.DomainJoin,
			ImageID:            s.environmentImage(opts.ImageID),
			EnableSingleSignOn: opts.EnableSingleSignOn,
		})
		if err != nil {
			log.Warn().Err(err).Msg("provisioning policy creation failed, environment left without policy")
		} else {
			result.Policy = policy
		}
	}

	if opts.AssignPolicy && result.Policy != nil {
		s.assignEnvironmentPolicy(ctx, result)
	}

	result.Duration = time.Since(started)
	userCount, groupCount, policyCount := result.Counts()
	log.Info().
		Int("users", userCount).
		Int("groups", groupCount).
		Int("policies", policyCount).
		Dur("duration", result.Duration).
		Msg("environment created")
	return result, nil
}

// createIndividualGroups makes one group per created user and adds that
// user as its only member. One group failing never aborts the rest.
func (s *Orchestrator) createIndividualGroups(ctx context.Context, credentials []Credential, result *EnvironmentResult) {
	log := zerolog.Ctx(ctx)
	for _, credential := range credentials {
		name := individualGroupName(credential.Username)
		group, _, err := s.EnsureGroup(ctx, name, fmt.Sprintf("Lab group for user %s", credential.UserPrincipalName))
		if err != nil {
			log.Warn().Err(err).Str("group", name).Msg("group creation failed")
			result.GroupReport.fail(name, err)
			continue
		}
		if !s.dryRun {
			if err := s.AddUserToGroup(ctx, credential.UserPrincipalName, group.ID); err != nil {
				log.Warn().Err(err).Str("group", name).Msg("adding user to group failed")
			}
		}
		result.Groups = append(result.Groups, *group)
		result.GroupReport.ok(name)
	}
}

// createSharedGroup makes one group and adds every created user to it.
func (s *Orchestrator) createSharedGroup(ctx context.Context, prefix string, credentials []Credential, result *EnvironmentResult) {
	log := zerolog.Ctx(ctx)
	name := sharedGroupName(prefix)
	group, _, err := s.EnsureGroup(ctx, name, fmt.Sprintf("Shared lab group for prefix %q", prefix))
	if err != nil {
		log.Warn().Err(err).Str("group", name).Msg("shared group creation failed")
		result.GroupReport.fail(name, err)
		return
	}
	result.Groups = append(result.Groups, *group)
	result.GroupReport.ok(name)

	if s.dryRun {
		return
	}
	failures := 0
	for _, credential := range credentials {
		if err := s.AddUserToGroup(ctx, credential.UserPrincipalName, group.ID); err != nil {
			log.Warn().Err(err).Str("user", credential.UserPrincipalName).Msg("adding user to shared group failed")
			failures++
		}
	}
	if failures > 0 {
		log.Warn().Int("failures", failures).Str("group", name).Msg("some users were not added to the shared group")
	}
}

// assignEnvironmentPolicy attaches the environment policy to every created
// group, or to the well-known license group when no groups exist. A failed
// fallback lookup leaves the policy unassigned with a warning.
func (s *Orchestrator) assignEnvironmentPolicy(ctx context.Context, result *EnvironmentResult) {
	log := zerolog.Ctx(ctx)

	targets := result.Groups
	if len(targets) == 0 {
		fallback, err := s.client.GetGroupByName(ctx, s.cfg.LicenseGroupName)
		if err != nil || fallback == nil {
			log.Warn().Err(err).
				Str("group", s.cfg.LicenseGroupName).
				Msg("default license group not found, policy left unassigned")
			return
		}
		targets = []azure.Group{*fallback}
	}

	for _, group := range targets {
		if s.dryRun {
			log.Info().Str("group", group.DisplayName).Msg("dry-run: would assign policy to group")
			result.AssignmentReport.ok(group.DisplayName)
			continue
		}
		added, err := s.client.SetProvisioningPolicyAssignment(ctx, result.Policy.ID, group.ID)
		if err != nil {
			log.Warn().Err(err).Str("group", group.DisplayName).Msg("policy assignment failed")
			result.AssignmentReport.fail(group.DisplayName, err)
			continue
		}
		if !added {
			result.AssignmentReport.skip(group.DisplayName)
			continue
		}
		result.AssignmentReport.ok(group.DisplayName)
	}
}

func (s *Orchestrator) environmentImage(imageID string) string {
	if imageID != "" {
		return imageID
	}
	// Current win11 gallery image; matches what the interactive flow
	// offers as its default.
	return "microsoftwindowsdesktop_windows-ent-cpc_win11-24h2-ent-cpc"
}

type RemoveEnvironmentOptions struct {
	Prefix string

	RemovePolicies bool
	RemoveGroups   bool
	RemoveUsers    bool

	Confirm ConfirmFunc
}

type RemoveEnvironmentResult struct {
	PoliciesRemoved int
	GroupsRemoved   int
	UsersRemoved    int
	Duration        time.Duration
}

// RemoveEnvironment tears down a lab by prefix, strictly in the order
// policies, then groups, then users, so no assignment ever dangles toward a
// deleted target. Counts are measured per stage; nothing re-verifies zero
// remaining beyond them.
func (s *Orchestrator) RemoveEnvironment(ctx context.Context, opts RemoveEnvironmentOptions) (*RemoveEnvironmentResult, error) {
	log := zerolog.Ctx(ctx)
	if opts.Prefix == "" {
		return nil, fmt.Errorf("prefix is required")
	}
	if !opts.RemovePolicies && !opts.RemoveGroups && !opts.RemoveUsers {
		return nil, fmt.Errorf("nothing selected for removal")
	}

	started := time.Now()
	result := &RemoveEnvironmentResult{}

	if opts.RemovePolicies {
		report, err := s.RemovePolicies(ctx, RemovePoliciesOptions{
			NamePattern:           environmentPolicyName(opts.Prefix) + "*",
			ClearAssignmentsFirst: true,
			Confirm:               opts.Confirm,
		})
		if err != nil {
			log.Warn().Err(err).Msg("policy removal stage failed")
		} else {
			result.PoliciesRemoved = len(report.Succeeded)
		}
	}

	if opts.RemoveGroups {
		for _, pattern := range []string{
			individualGroupName(opts.Prefix) + "*",
			sharedGroupName(opts.Prefix),
		} {
			report, err := s.RemoveGroups(ctx, RemoveGroupsOptions{
				NamePattern: pattern,
				Confirm:     opts.Confirm,
			})
			if err != nil {
				log.Warn().Err(err).Str("pattern", pattern).Msg("group removal stage failed")
				continue
			}
			result.GroupsRemoved += len(report.Succeeded)
		}
	}

	if opts.RemoveUsers {
		report, err := s.RemoveUsers(ctx, RemoveUsersOptions{
			Prefix:  opts.Prefix,
			Confirm: opts.Confirm,
		})
		if err != nil {
			log.Warn().Err(err).Msg("user removal stage failed")
		} else {
			result.UsersRemoved = len(report.Succeeded)
		}
	}

	result.Duration = time.Since(started)
	log.Info().
		Int("policies", result.PoliciesRemoved).
		Int("groups", result.GroupsRemoved).
		Int("users", result.UsersRemoved).
		Dur("duration", result.Duration).
		Msg("environment removed")
	return result, nil
}
