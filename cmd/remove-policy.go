package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awillows/win365-lab-builder/pkg/lab"
)

var removePolicyOpts struct {
	pattern          string
	id               string
	clearAssignments bool
}

func init() {
	removePolicyCmd.Flags().StringVarP(&removePolicyOpts.pattern, "pattern", "n", "", "policy name glob")
	removePolicyCmd.Flags().StringVar(&removePolicyOpts.id, "id", "", "policy id")
	removePolicyCmd.Flags().BoolVar(&removePolicyOpts.clearAssignments, "clear-assignments", false, "detach all group assignments before deleting")
	removePolicyCmd.MarkFlagsMutuallyExclusive("pattern", "id")
	rootCmd.AddCommand(removePolicyCmd)
}

var removePolicyCmd = &cobra.Command{
	Use:          "remove-policy",
	Short:        "Remove Cloud PC provisioning policies",
	Run:          removePolicyCmdImpl,
	SilenceUsage: true,
}

func removePolicyCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	report, err := orchestrator.RemovePolicies(ctx, lab.RemovePoliciesOptions{
		NamePattern:           removePolicyOpts.pattern,
		ID:                    removePolicyOpts.id,
		ClearAssignmentsFirst: removePolicyOpts.clearAssignments,
		Confirm:               confirmTargets(),
	})
	if err != nil {
		exit(err)
	}
	fmt.Printf("Policies removed: %s\n", report.Summary())
}
