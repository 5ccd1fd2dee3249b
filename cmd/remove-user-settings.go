package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awillows/win365-lab-builder/pkg/lab"
)

var removeUserSettingsOpts struct {
	pattern string
	id      string
}

func init() {
	removeUserSettingsCmd.Flags().StringVarP(&removeUserSettingsOpts.pattern, "pattern", "n", "", "user settings name glob")
	removeUserSettingsCmd.Flags().StringVar(&removeUserSettingsOpts.id, "id", "", "user settings id")
	removeUserSettingsCmd.MarkFlagsMutuallyExclusive("pattern", "id")
	rootCmd.AddCommand(removeUserSettingsCmd)
}

var removeUserSettingsCmd = &cobra.Command{
	Use:          "remove-user-settings",
	Short:        "Remove Cloud PC user-settings policies, clearing their assignments first",
	Run:          removeUserSettingsCmdImpl,
	SilenceUsage: true,
}

func removeUserSettingsCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	report, err := orchestrator.RemoveUserSettings(ctx, lab.RemoveUserSettingsOptions{
		NamePattern: removeUserSettingsOpts.pattern,
		ID:          removeUserSettingsOpts.id,
		Confirm:     confirmTargets(),
	})
	if err != nil {
		exit(err)
	}
	fmt.Printf("User settings removed: %s\n", report.Summary())
}
