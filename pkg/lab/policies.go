package lab

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/awillows/win365-lab-builder/client/query"
	"github.com/awillows/win365-lab-builder/internal/glob"
	"github.com/awillows/win365-lab-builder/models/azure"
)

// DomainJoin selects how provisioned Cloud PCs reach a network. Exactly two
// implementations exist: AzureNetworkConnection and MicrosoftHostedNetwork.
// The sealed interface makes a both-or-neither combination unrepresentable.
type DomainJoin interface {
	configuration() azure.DomainJoinConfiguration
}

// AzureNetworkConnection joins Cloud PCs through a customer-managed Azure
// network connection.
type AzureNetworkConnection struct {
	ConnectionID string
}

func (s AzureNetworkConnection) configuration() azure.DomainJoinConfiguration {
	return azure.DomainJoinConfiguration{
		DomainJoinType:         azure.DomainJoinTypeAzureADJoin,
		OnPremisesConnectionID: s.ConnectionID,
	}
}

// MicrosoftHostedNetwork joins Cloud PCs to a Microsoft-hosted network in
// the named region.
type MicrosoftHostedNetwork struct {
	RegionName string
}

func (s MicrosoftHostedNetwork) configuration() azure.DomainJoinConfiguration {
	return azure.DomainJoinConfiguration{
		DomainJoinType: azure.DomainJoinTypeAzureADJoin,
		RegionName:     s.RegionName,
	}
}

type CreatePolicyOptions struct {
	Name        string
	Description string

	// DomainJoin defaults to a Microsoft-hosted network in the configured
	// region when nil.
	DomainJoin DomainJoin

	ImageID            string
	ImageType          string // gallery or custom; defaults to gallery
	Locale             string // defaults to en-US
	EnableSingleSignOn bool
}

// EnsurePolicy creates a provisioning policy, or returns the existing one
// unchanged when the name is already taken. Name uniqueness is a convention,
// not enforced by the service; concurrent callers can still race a
// duplicate.
func (s *Orchestrator) EnsurePolicy(ctx context.Context, opts CreatePolicyOptions) (*azure.ProvisioningPolicy, bool, error) {
	log := zerolog.Ctx(ctx)
	if opts.Name == "" {
		return nil, false, fmt.Errorf("policy name is required")
	}
	if opts.ImageID == "" {
		return nil, false, fmt.Errorf("policy image is required")
	}

	existing, err := s.client.GetProvisioningPolicyByName(ctx, opts.Name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		log.Warn().Str("policy", opts.Name).Msg("provisioning policy already exists, returning existing policy")
		return existing, false, nil
	}

	domainJoin := opts.DomainJoin
	if domainJoin == nil {
		domainJoin = MicrosoftHostedNetwork{RegionName: s.cfg.RegionName}
	}
	imageType := opts.ImageType
	if imageType == "" {
		imageType = azure.ImageTypeGallery
	}
	locale := opts.Locale
	if locale == "" {
		locale = "en-US"
	}

	if s.dryRun {
		log.Info().Str("policy", opts.Name).Msg("dry-run: would create provisioning policy")
		return &azure.ProvisioningPolicy{DisplayName: opts.Name}, true, nil
	}

	created, err := s.client.CreateProvisioningPolicy(ctx, azure.NewProvisioningPolicy{
		DisplayName:              opts.Name,
		Description:              opts.Description,
		ProvisioningType:         azure.ProvisioningTypeDedicated,
		ImageID:                  opts.ImageID,
		ImageType:                imageType,
		EnableSingleSignOn:       opts.EnableSingleSignOn,
		DomainJoinConfigurations: []azure.DomainJoinConfiguration{domainJoin.configuration()},
		WindowsSetting:           &azure.WindowsSetting{Locale: locale},
	})
	if err != nil {
		return nil, false, err
	}
	log.Info().Str("policy", opts.Name).Str("id", created.ID).Msg("provisioning policy created")
	return created, true, nil
}

type RemovePoliciesOptions struct {
	// NamePattern is a glob matched against policy names; ID removes one
	// policy directly. One of the two is required.
	NamePattern string
	ID          string

	// ClearAssignmentsFirst detaches all group assignments before deleting.
	ClearAssignmentsFirst bool

	Confirm ConfirmFunc
}

// RemovePolicies deletes matching provisioning policies, tolerating
// per-item failure.
func (s *Orchestrator) RemovePolicies(ctx context.Context, opts RemovePoliciesOptions) (*BatchReport, error) {
	log := zerolog.Ctx(ctx)
	if (opts.NamePattern == "") == (opts.ID == "") {
		return nil, fmt.Errorf("exactly one of name pattern or id is required")
	}

	var targets []azure.ProvisioningPolicy
	if opts.ID != "" {
		policy, err := s.client.GetProvisioningPolicy(ctx, opts.ID, false)
		if err != nil {
			return nil, fmt.Errorf("resolving policy %s: %w", opts.ID, err)
		}
		targets = []azure.ProvisioningPolicy{*policy}
	} else {
		var err error
		if targets, err = s.ListPolicies(ctx, opts.NamePattern); err != nil {
			return nil, err
		}
	}

	report := &BatchReport{}
	if len(targets) == 0 {
		log.Info().Msg("no matching provisioning policies")
		return report, nil
	}

	names := make([]string, len(targets))
	for i, policy := range targets {
		names[i] = policy.DisplayName
	}
	if s.dryRun {
		for _, name := range names {
			log.Info().Str("policy", name).Msg("dry-run: would remove provisioning policy")
		}
		return report, nil
	}
	if !s.confirmed(opts.Confirm, names) {
		log.Info().Msg("removal cancelled")
		return report, nil
	}

	for _, policy := range targets {
		if opts.ClearAssignmentsFirst {
			if err := s.client.ClearProvisioningPolicyAssignments(ctx, policy.ID); err != nil {
				log.Warn().Err(err).Str("policy", policy.DisplayName).Msg("clearing assignments failed")
			}
		}
		if err := s.client.DeleteProvisioningPolicy(ctx, policy.ID); err != nil {
			log.Warn().Err(err).Str("policy", policy.DisplayName).Msg("policy removal failed")
			report.fail(policy.DisplayName, err)
			continue
		}
		report.ok(policy.DisplayName)
	}
	log.Info().Str("summary", report.Summary()).Msg("policy removal finished")
	return report, nil
}

// ListPolicies returns provisioning policies whose name matches the glob
// pattern, or all policies when the pattern is empty.
func (s *Orchestrator) ListPolicies(ctx context.Context, namePattern string) ([]azure.ProvisioningPolicy, error) {
	match := func(string) bool { return true }
	if namePattern != "" {
		var err error
		if match, err = glob.Compile(namePattern); err != nil {
			return nil, err
		}
	}

	var policies []azure.ProvisioningPolicy
	for result := range s.client.ListProvisioningPolicies(ctx, query.GraphParams{}) {
		if result.Error != nil {
			return nil, result.Error
		}
		if match(result.Ok.DisplayName) {
			policies = append(policies, result.Ok)
		}
	}
	return policies, nil
}

// AssignPolicyToGroup adds a group to a provisioning policy's assignments,
// resolving the group by id or name first. Merge semantics live in the
// client; this adds resolution and dry-run handling.
func (s *Orchestrator) AssignPolicyToGroup(ctx context.Context, policyId, groupIdOrName string) (bool, error) {
	group, err := s.resolveGroup(ctx, groupIdOrName)
	if err != nil {
		return false, err
	}
	if s.dryRun {
		zerolog.Ctx(ctx).Info().
			Str("policy", policyId).
			Str("group", group.DisplayName).
			Msg("dry-run: would assign policy to group")
		return false, nil
	}
	return s.client.SetProvisioningPolicyAssignment(ctx, policyId, group.ID)
}
