package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awillows/win365-lab-builder/pkg/lab"
)

var createUserSettingsOpts struct {
	name                 string
	description          string
	localAdmin           bool
	noSelfServiceRestore bool
	restoreFrequency     int
}

func init() {
	createUserSettingsCmd.Flags().StringVarP(&createUserSettingsOpts.name, "name", "n", "", "user settings name (required)")
	createUserSettingsCmd.Flags().StringVar(&createUserSettingsOpts.description, "description", "", "user settings description")
	createUserSettingsCmd.Flags().BoolVar(&createUserSettingsOpts.localAdmin, "local-admin", false, "grant users local administrator on their Cloud PC")
	createUserSettingsCmd.Flags().BoolVar(&createUserSettingsOpts.noSelfServiceRestore, "no-self-service-restore", false, "disable user-initiated restore")
	createUserSettingsCmd.Flags().IntVar(&createUserSettingsOpts.restoreFrequency, "restore-frequency", 0, "restore point frequency in hours, 4-24 (default 12)")
	_ = createUserSettingsCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(createUserSettingsCmd)
}

var createUserSettingsCmd = &cobra.Command{
	Use:          "create-user-settings",
	Short:        "Create a Cloud PC user-settings policy, returning the existing one on name collision",
	Run:          createUserSettingsCmdImpl,
	SilenceUsage: true,
}

func createUserSettingsCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	setting, created, err := orchestrator.EnsureUserSettings(ctx, lab.CreateUserSettingsOptions{
		Name:                       createUserSettingsOpts.name,
		Description:                createUserSettingsOpts.description,
		EnableLocalAdmin:           createUserSettingsOpts.localAdmin,
		DisableSelfServiceRestore:  createUserSettingsOpts.noSelfServiceRestore,
		RestorePointFrequencyHours: createUserSettingsOpts.restoreFrequency,
	})
	if err != nil {
		exit(err)
	}
	if created {
		fmt.Printf("User settings %q created (%s)\n", setting.DisplayName, setting.ID)
	} else {
		fmt.Printf("User settings %q already exist (%s)\n", setting.DisplayName, setting.ID)
	}
}
