package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var assignPolicyOpts struct {
	policyID string
	group    string
}

func init() {
	assignPolicyCmd.Flags().StringVar(&assignPolicyOpts.policyID, "policy-id", "", "provisioning policy id (required)")
	assignPolicyCmd.Flags().StringVarP(&assignPolicyOpts.group, "group", "g", "", "group id or display name (required)")
	_ = assignPolicyCmd.MarkFlagRequired("policy-id")
	_ = assignPolicyCmd.MarkFlagRequired("group")
	rootCmd.AddCommand(assignPolicyCmd)
}

var assignPolicyCmd = &cobra.Command{
	Use:          "assign-policy",
	Short:        "Add a group to a provisioning policy's assignments",
	Long:         "Reads the policy's existing assignments and appends the group, preserving every prior assignment. Re-assigning an already-assigned group is a no-op.",
	Run:          assignPolicyCmdImpl,
	SilenceUsage: true,
}

func assignPolicyCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	added, err := orchestrator.AssignPolicyToGroup(ctx, assignPolicyOpts.policyID, assignPolicyOpts.group)
	if err != nil {
		exit(err)
	}
	if added {
		fmt.Printf("Policy %s assigned to %s\n", assignPolicyOpts.policyID, assignPolicyOpts.group)
	} else {
		fmt.Println("No change")
	}
}
