package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var listPoliciesPattern string

func init() {
	listPoliciesCmd.Flags().StringVarP(&listPoliciesPattern, "pattern", "n", "", "policy name glob (empty lists all policies)")
	rootCmd.AddCommand(listPoliciesCmd)
}

var listPoliciesCmd = &cobra.Command{
	Use:          "list-policies",
	Short:        "List Cloud PC provisioning policies",
	Run:          listPoliciesCmdImpl,
	SilenceUsage: true,
}

func listPoliciesCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	policies, err := orchestrator.ListPolicies(ctx, listPoliciesPattern)
	if err != nil {
		exit(err)
	}
	for _, policy := range policies {
		fmt.Printf("%s\t%s\t%s\n", policy.ID, policy.DisplayName, policy.ImageDisplayName)
	}
	fmt.Printf("%d policy(ies)\n", len(policies))
}
