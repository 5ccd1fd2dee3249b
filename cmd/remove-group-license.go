package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awillows/win365-lab-builder/pkg/lab"
)

var removeGroupLicenseOpts struct {
	group       string
	skuIDs      []string
	partNumbers []string
	removeAll   bool
}

func init() {
	removeGroupLicenseCmd.Flags().StringVarP(&removeGroupLicenseOpts.group, "group", "g", "", "group id or display name (required)")
	removeGroupLicenseCmd.Flags().StringSliceVar(&removeGroupLicenseOpts.skuIDs, "sku-id", nil, "sku id (repeatable)")
	removeGroupLicenseCmd.Flags().StringSliceVar(&removeGroupLicenseOpts.partNumbers, "sku", nil, "sku part number (repeatable)")
	removeGroupLicenseCmd.Flags().BoolVar(&removeGroupLicenseOpts.removeAll, "all", false, "remove every license currently on the group")
	_ = removeGroupLicenseCmd.MarkFlagRequired("group")
	rootCmd.AddCommand(removeGroupLicenseCmd)
}

var removeGroupLicenseCmd = &cobra.Command{
	Use:          "remove-group-license",
	Short:        "Remove licenses from a group",
	Run:          removeGroupLicenseCmdImpl,
	SilenceUsage: true,
}

func removeGroupLicenseCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	skuIDs, err := parseUUIDs(removeGroupLicenseOpts.skuIDs, "sku id")
	if err != nil {
		exit(err)
	}

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	err = orchestrator.RemoveGroupLicense(ctx, lab.RemoveGroupLicenseOptions{
		GroupIdOrName:  removeGroupLicenseOpts.group,
		SkuIDs:         skuIDs,
		SkuPartNumbers: removeGroupLicenseOpts.partNumbers,
		RemoveAll:      removeGroupLicenseOpts.removeAll,
		Confirm:        confirmTargets(),
	})
	if err != nil {
		exit(err)
	}
	fmt.Printf("Licenses removed from %s\n", removeGroupLicenseOpts.group)
}
