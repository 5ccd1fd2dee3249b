package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awillows/win365-lab-builder/pkg/lab"
)

var removeGroupsPattern string

func init() {
	removeGroupsCmd.Flags().StringVarP(&removeGroupsPattern, "pattern", "n", "", "display name glob, e.g. 'Lab Group for test*' (required)")
	_ = removeGroupsCmd.MarkFlagRequired("pattern")
	rootCmd.AddCommand(removeGroupsCmd)
}

var removeGroupsCmd = &cobra.Command{
	Use:          "remove-groups",
	Short:        "Remove groups matching a display name pattern",
	Run:          removeGroupsCmdImpl,
	SilenceUsage: true,
}

func removeGroupsCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	report, err := orchestrator.RemoveGroups(ctx, lab.RemoveGroupsOptions{
		NamePattern: removeGroupsPattern,
		Confirm:     confirmTargets(),
	})
	if err != nil {
		exit(err)
	}
	fmt.Printf("Groups removed: %s\n", report.Summary())
}
