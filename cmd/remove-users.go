package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awillows/win365-lab-builder/pkg/lab"
)

var removeUsersOpts struct {
	prefix        string
	principalName string
}

func init() {
	removeUsersCmd.Flags().StringVarP(&removeUsersOpts.prefix, "prefix", "p", "", "remove every user whose principal name starts with this prefix")
	removeUsersCmd.Flags().StringVar(&removeUsersOpts.principalName, "upn", "", "remove exactly one user by principal name")
	rootCmd.AddCommand(removeUsersCmd)
}

var removeUsersCmd = &cobra.Command{
	Use:          "remove-users",
	Short:        "Remove lab users by prefix or principal name",
	Run:          removeUsersCmdImpl,
	SilenceUsage: true,
}

func removeUsersCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	report, err := orchestrator.RemoveUsers(ctx, lab.RemoveUsersOptions{
		Prefix:        removeUsersOpts.prefix,
		PrincipalName: removeUsersOpts.principalName,
		Confirm:       confirmTargets(),
	})
	if err != nil {
		exit(err)
	}
	fmt.Printf("Users removed: %s\n", report.Summary())
}
