package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var endGracePeriodPrefix string

func init() {
	endGracePeriodCmd.Flags().StringVarP(&endGracePeriodPrefix, "prefix", "p", "", "limit to Cloud PCs assigned to users with this UPN prefix")
	rootCmd.AddCommand(endGracePeriodCmd)
}

var endGracePeriodCmd = &cobra.Command{
	Use:          "end-grace-period",
	Short:        "End the retention window on deprovisioned Cloud PCs to free their licenses",
	Run:          endGracePeriodCmdImpl,
	SilenceUsage: true,
}

func endGracePeriodCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	report, err := orchestrator.EndGracePeriods(ctx, endGracePeriodPrefix, confirmTargets())
	if err != nil {
		exit(err)
	}
	fmt.Printf("Grace periods ended: %s\n", report.Summary())
}
