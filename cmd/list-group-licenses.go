package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var listGroupLicensesGroup string

func init() {
	listGroupLicensesCmd.Flags().StringVarP(&listGroupLicensesGroup, "group", "g", "", "group id or display name (required)")
	_ = listGroupLicensesCmd.MarkFlagRequired("group")
	rootCmd.AddCommand(listGroupLicensesCmd)
}

var listGroupLicensesCmd = &cobra.Command{
	Use:          "list-group-licenses",
	Short:        "List the licenses assigned to a group",
	Run:          listGroupLicensesCmdImpl,
	SilenceUsage: true,
}

func listGroupLicensesCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	assignments, err := orchestrator.ListGroupLicenses(ctx, listGroupLicensesGroup)
	if err != nil {
		exit(err)
	}
	if len(assignments) == 0 {
		fmt.Println("No licenses assigned")
		return
	}
	for _, assignment := range assignments {
		fmt.Printf("%s\t%s\t%d/%d consumed\n",
			assignment.SkuPartNumber, assignment.ProductName,
			assignment.ConsumedUnits, assignment.PrepaidUnits)
	}
}
