package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var listGroupsPattern string

func init() {
	listGroupsCmd.Flags().StringVarP(&listGroupsPattern, "pattern", "n", "", "display name glob (empty lists all groups)")
	rootCmd.AddCommand(listGroupsCmd)
}

var listGroupsCmd = &cobra.Command{
	Use:          "list-groups",
	Short:        "List groups by display name pattern",
	Run:          listGroupsCmdImpl,
	SilenceUsage: true,
}

func listGroupsCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	groups, err := orchestrator.ListGroups(ctx, listGroupsPattern)
	if err != nil {
		exit(err)
	}
	for _, group := range groups {
		fmt.Printf("%s\t%s\t%s\n", group.ID, group.DisplayName, group.Description)
	}
	fmt.Printf("%d group(s)\n", len(groups))
}
