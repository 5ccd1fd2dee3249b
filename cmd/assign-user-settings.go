package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var assignUserSettingsOpts struct {
	settingID string
	groups    []string
	clear     bool
}

func init() {
	assignUserSettingsCmd.Flags().StringVar(&assignUserSettingsOpts.settingID, "id", "", "user settings id (required)")
	assignUserSettingsCmd.Flags().StringSliceVarP(&assignUserSettingsOpts.groups, "group", "g", nil, "group id or display name (repeatable)")
	assignUserSettingsCmd.Flags().BoolVar(&assignUserSettingsOpts.clear, "clear", false, "remove every assignment instead of setting one")
	_ = assignUserSettingsCmd.MarkFlagRequired("id")
	assignUserSettingsCmd.MarkFlagsMutuallyExclusive("group", "clear")
	rootCmd.AddCommand(assignUserSettingsCmd)
}

var assignUserSettingsCmd = &cobra.Command{
	Use:          "assign-user-settings",
	Short:        "Replace a user-settings policy's group assignments",
	Long:         "Replaces the assignment list wholesale with the given groups. Groups not named are dropped, so pass the full desired set. Use --clear to detach everything.",
	Run:          assignUserSettingsCmdImpl,
	SilenceUsage: true,
}

func assignUserSettingsCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	if assignUserSettingsOpts.clear {
		if err := orchestrator.ClearUserSettingsAssignments(ctx, assignUserSettingsOpts.settingID, confirmTargets()); err != nil {
			exit(err)
		}
		fmt.Printf("Assignments cleared on %s\n", assignUserSettingsOpts.settingID)
		return
	}

	if err := orchestrator.AssignUserSettingsToGroups(ctx, assignUserSettingsOpts.settingID, assignUserSettingsOpts.groups); err != nil {
		exit(err)
	}
	fmt.Printf("User settings %s assigned to %d group(s)\n", assignUserSettingsOpts.settingID, len(assignUserSettingsOpts.groups))
}
