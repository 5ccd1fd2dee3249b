package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var listUserSettingsPattern string

func init() {
	listUserSettingsCmd.Flags().StringVarP(&listUserSettingsPattern, "pattern", "n", "", "user settings name glob (empty lists all)")
	rootCmd.AddCommand(listUserSettingsCmd)
}

var listUserSettingsCmd = &cobra.Command{
	Use:          "list-user-settings",
	Short:        "List Cloud PC user-settings policies",
	Run:          listUserSettingsCmdImpl,
	SilenceUsage: true,
}

func listUserSettingsCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	settings, err := orchestrator.ListUserSettings(ctx, listUserSettingsPattern)
	if err != nil {
		exit(err)
	}
	for _, setting := range settings {
		admin := "standard user"
		if setting.LocalAdminEnabled {
			admin = "local admin"
		}
		fmt.Printf("%s\t%s\t%s\n", setting.ID, setting.DisplayName, admin)
	}
	fmt.Printf("%d user settings policy(ies)\n", len(settings))
}
