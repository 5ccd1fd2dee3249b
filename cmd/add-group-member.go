package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var addGroupMemberOpts struct {
	userPrincipalName string
	group             string
}

func init() {
	addGroupMemberCmd.Flags().StringVar(&addGroupMemberOpts.userPrincipalName, "upn", "", "user principal name (required)")
	addGroupMemberCmd.Flags().StringVarP(&addGroupMemberOpts.group, "group", "g", "", "group id or display name (required)")
	_ = addGroupMemberCmd.MarkFlagRequired("upn")
	_ = addGroupMemberCmd.MarkFlagRequired("group")
	rootCmd.AddCommand(addGroupMemberCmd)
}

var addGroupMemberCmd = &cobra.Command{
	Use:          "add-group-member",
	Short:        "Add a user to a group",
	Run:          addGroupMemberCmdImpl,
	SilenceUsage: true,
}

func addGroupMemberCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	if err := orchestrator.AddUserToGroup(ctx, addGroupMemberOpts.userPrincipalName, addGroupMemberOpts.group); err != nil {
		exit(err)
	}
	fmt.Printf("Added %s to %s\n", addGroupMemberOpts.userPrincipalName, addGroupMemberOpts.group)
}
