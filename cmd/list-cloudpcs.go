package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awillows/win365-lab-builder/pkg/lab"
)

var listCloudPCsOpts struct {
	userPrefix string
	graceOnly  bool
}

func init() {
	listCloudPCsCmd.Flags().StringVarP(&listCloudPCsOpts.userPrefix, "prefix", "p", "", "keep only Cloud PCs assigned to users with this UPN prefix")
	listCloudPCsCmd.Flags().BoolVar(&listCloudPCsOpts.graceOnly, "grace-period", false, "show only Cloud PCs in their grace period")
	rootCmd.AddCommand(listCloudPCsCmd)
}

var listCloudPCsCmd = &cobra.Command{
	Use:          "list-cloudpcs",
	Short:        "List provisioned Cloud PC instances",
	Run:          listCloudPCsCmdImpl,
	SilenceUsage: true,
}

func listCloudPCsCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	cloudPCs, err := orchestrator.ListCloudPCs(ctx, lab.ListCloudPCsOptions{
		UserPrefix:      listCloudPCsOpts.userPrefix,
		GracePeriodOnly: listCloudPCsOpts.graceOnly,
	})
	if err != nil {
		exit(err)
	}
	for _, pc := range cloudPCs {
		fmt.Printf("%s\t%s\t%s\t%s\n", pc.ManagedDeviceName, pc.UserPrincipalName, pc.Status, pc.ProvisioningPolicyName)
	}
	fmt.Printf("%d cloud pc(s)\n", len(cloudPCs))
}
