package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var listUsersPrefix string

func init() {
	listUsersCmd.Flags().StringVarP(&listUsersPrefix, "prefix", "p", "", "filter by principal name prefix (empty lists all users)")
	rootCmd.AddCommand(listUsersCmd)
}

var listUsersCmd = &cobra.Command{
	Use:          "list-users",
	Short:        "List lab users",
	Run:          listUsersCmdImpl,
	SilenceUsage: true,
}

func listUsersCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	users, err := orchestrator.ListUsers(ctx, listUsersPrefix)
	if err != nil {
		exit(err)
	}
	for _, user := range users {
		state := "enabled"
		if !user.AccountEnabled {
			state = "disabled"
		}
		fmt.Printf("%s\t%s\t%s\n", user.UserPrincipalName, user.DisplayName, state)
	}
	fmt.Printf("%d user(s)\n", len(users))
}
