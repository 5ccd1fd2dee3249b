package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var createGroupOpts struct {
	name        string
	description string
}

func init() {
	createGroupCmd.Flags().StringVarP(&createGroupOpts.name, "name", "n", "", "group display name (required)")
	createGroupCmd.Flags().StringVar(&createGroupOpts.description, "description", "", "group description")
	_ = createGroupCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(createGroupCmd)
}

var createGroupCmd = &cobra.Command{
	Use:          "create-group",
	Short:        "Create a security group, returning the existing one on name collision",
	Run:          createGroupCmdImpl,
	SilenceUsage: true,
}

func createGroupCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	group, created, err := orchestrator.EnsureGroup(ctx, createGroupOpts.name, createGroupOpts.description)
	if err != nil {
		exit(err)
	}
	if created {
		fmt.Printf("Group %q created (%s)\n", group.DisplayName, group.ID)
	} else {
		fmt.Printf("Group %q already exists (%s)\n", group.DisplayName, group.ID)
	}
}
