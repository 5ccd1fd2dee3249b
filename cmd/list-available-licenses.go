package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var listAvailableLicensesOpts struct {
	filter      string
	includeZero bool
}

func init() {
	listAvailableLicensesCmd.Flags().StringVar(&listAvailableLicensesOpts.filter, "sku-filter", "", "substring filter on sku part number")
	listAvailableLicensesCmd.Flags().BoolVar(&listAvailableLicensesOpts.includeZero, "include-zero", false, "include skus with nothing available")
	rootCmd.AddCommand(listAvailableLicensesCmd)
}

var listAvailableLicensesCmd = &cobra.Command{
	Use:          "list-available-licenses",
	Short:        "Report per-sku license availability for the tenant",
	Run:          listAvailableLicensesCmdImpl,
	SilenceUsage: true,
}

func listAvailableLicensesCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	infos, err := orchestrator.AvailableLicenses(ctx, listAvailableLicensesOpts.filter, listAvailableLicensesOpts.includeZero)
	if err != nil {
		exit(err)
	}
	if len(infos) == 0 {
		fmt.Println("No licenses available (try --include-zero)")
		return
	}
	for _, info := range infos {
		fmt.Printf("%-28s %-48s available %d (enabled %d, consumed %d)\n",
			info.SkuPartNumber, info.ProductName, info.Available, info.Enabled, info.Consumed)
	}
}
