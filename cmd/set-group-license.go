package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/awillows/win365-lab-builder/pkg/lab"
)

var setGroupLicenseOpts struct {
	group         string
	skuIDs        []string
	partNumbers   []string
	disabledPlans []string
}

func init() {
	setGroupLicenseCmd.Flags().StringVarP(&setGroupLicenseOpts.group, "group", "g", "", "group id or display name (required)")
	setGroupLicenseCmd.Flags().StringSliceVar(&setGroupLicenseOpts.skuIDs, "sku-id", nil, "sku id (repeatable)")
	setGroupLicenseCmd.Flags().StringSliceVar(&setGroupLicenseOpts.partNumbers, "sku", nil, "sku part number, e.g. CPC_E_2C_8GB_128GB (repeatable)")
	setGroupLicenseCmd.Flags().StringSliceVar(&setGroupLicenseOpts.disabledPlans, "disable-plan", nil, "service plan id to disable (repeatable)")
	_ = setGroupLicenseCmd.MarkFlagRequired("group")
	rootCmd.AddCommand(setGroupLicenseCmd)
}

var setGroupLicenseCmd = &cobra.Command{
	Use:          "set-group-license",
	Short:        "Add licenses to a group (additive, leaves other licenses untouched)",
	Run:          setGroupLicenseCmdImpl,
	SilenceUsage: true,
}

func parseUUIDs(values []string, flag string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", flag, value, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func setGroupLicenseCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	skuIDs, err := parseUUIDs(setGroupLicenseOpts.skuIDs, "sku id")
	if err != nil {
		exit(err)
	}
	disabledPlans, err := parseUUIDs(setGroupLicenseOpts.disabledPlans, "service plan id")
	if err != nil {
		exit(err)
	}

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	err = orchestrator.SetGroupLicense(ctx, lab.GroupLicenseOptions{
		GroupIdOrName:        setGroupLicenseOpts.group,
		SkuIDs:               skuIDs,
		SkuPartNumbers:       setGroupLicenseOpts.partNumbers,
		DisabledServicePlans: disabledPlans,
	})
	if err != nil {
		exit(err)
	}
	fmt.Printf("Licenses assigned to %s\n", setGroupLicenseOpts.group)
}
