package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awillows/win365-lab-builder/pkg/lab"
)

var removeEnvironmentOpts struct {
	prefix       string
	keepPolicies bool
	keepGroups   bool
	keepUsers    bool
}

func init() {
	removeEnvironmentCmd.Flags().StringVarP(&removeEnvironmentOpts.prefix, "prefix", "p", "", "principal name prefix of the lab to tear down (required)")
	removeEnvironmentCmd.Flags().BoolVar(&removeEnvironmentOpts.keepPolicies, "keep-policies", false, "leave provisioning policies in place")
	removeEnvironmentCmd.Flags().BoolVar(&removeEnvironmentOpts.keepGroups, "keep-groups", false, "leave lab groups in place")
	removeEnvironmentCmd.Flags().BoolVar(&removeEnvironmentOpts.keepUsers, "keep-users", false, "leave lab users in place")
	_ = removeEnvironmentCmd.MarkFlagRequired("prefix")
	rootCmd.AddCommand(removeEnvironmentCmd)
}

var removeEnvironmentCmd = &cobra.Command{
	Use:          "remove-environment",
	Short:        "Tear down a lab environment by prefix",
	Long:         "Removes lab resources in dependency order: provisioning policies first, then groups, then users. Use the --keep-* flags to leave individual stages in place.",
	Run:          removeEnvironmentCmdImpl,
	SilenceUsage: true,
}

func removeEnvironmentCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	result, err := orchestrator.RemoveEnvironment(ctx, lab.RemoveEnvironmentOptions{
		Prefix:         removeEnvironmentOpts.prefix,
		RemovePolicies: !removeEnvironmentOpts.keepPolicies,
		RemoveGroups:   !removeEnvironmentOpts.keepGroups,
		RemoveUsers:    !removeEnvironmentOpts.keepUsers,
		Confirm:        confirmTargets(),
	})
	if err != nil {
		exit(err)
	}
	fmt.Printf("🧹 Environment removed in %s: %d policy(ies), %d group(s), %d user(s)\n",
		result.Duration.Round(timeRounding), result.PoliciesRemoved, result.GroupsRemoved, result.UsersRemoved)
}
