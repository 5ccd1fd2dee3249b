package lab

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/awillows/win365-lab-builder/client/query"
	"github.com/awillows/win365-lab-builder/models/azure"
)

type ListCloudPCsOptions struct {
	// UserPrefix keeps only Cloud PCs whose user principal name starts
	// with the prefix. Empty matches everything.
	UserPrefix string

	GracePeriodOnly bool
}

// ListCloudPCs returns the tenant's Cloud PC instances, optionally filtered
// to a user prefix or to machines sitting in their grace period.
func (s *Orchestrator) ListCloudPCs(ctx context.Context, opts ListCloudPCsOptions) ([]azure.CloudPC, error) {
	var cloudPCs []azure.CloudPC
	for result := range s.client.ListCloudPCs(ctx, query.GraphParams{}) {
		if result.Error != nil {
			return nil, result.Error
		}
		pc := result.Ok
		if opts.UserPrefix != "" && !strings.HasPrefix(strings.ToLower(pc.UserPrincipalName), strings.ToLower(opts.UserPrefix)) {
			continue
		}
		if opts.GracePeriodOnly && !pc.InGracePeriod() {
			continue
		}
		cloudPCs = append(cloudPCs, pc)
	}
	return cloudPCs, nil
}

// EndGracePeriods ends the retention window on every matching Cloud PC so
// their licenses free up immediately. Only machines actually in their grace
// period are touched.
func (s *Orchestrator) EndGracePeriods(ctx context.Context, userPrefix string, confirm ConfirmFunc) (*BatchReport, error) {
	log := zerolog.Ctx(ctx)

	targets, err := s.ListCloudPCs(ctx, ListCloudPCsOptions{UserPrefix: userPrefix, GracePeriodOnly: true})
	if err != nil {
		return nil, err
	}

	report := &BatchReport{}
	if len(targets) == 0 {
		log.Info().Msg("no cloud pcs in grace period")
		return report, nil
	}

	names := make([]string, len(targets))
	for i, pc := range targets {
		names[i] = fmt.Sprintf("%s (%s)", pc.ManagedDeviceName, pc.UserPrincipalName)
	}
	if s.dryRun {
		for _, name := range names {
			log.Info().Str("cloudPC", name).Msg("dry-run: would end grace period")
		}
		return report, nil
	}
	if !s.confirmed(confirm, names) {
		log.Info().Msg("cancelled")
		return report, nil
	}

	for i, pc := range targets {
		if err := s.client.EndGracePeriod(ctx, pc.ID); err != nil {
			log.Warn().Err(err).Str("cloudPC", names[i]).Msg("ending grace period failed")
			report.fail(names[i], err)
			continue
		}
		report.ok(names[i])
	}
	log.Info().Str("summary", report.Summary()).Msg("grace period cleanup finished")
	return report, nil
}
