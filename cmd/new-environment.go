package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awillows/win365-lab-builder/pkg/lab"
)

var newEnvironmentOpts struct {
	count            int
	prefix           string
	individualGroups bool
	sharedGroup      bool
	createPolicy     bool
	assignPolicy     bool
	connectionID     string
	regionName       string
	imageID          string
	enableSSO        bool
	domain           string
	useFixedPassword bool
	csvPath          string
}

func init() {
	newEnvironmentCmd.Flags().IntVarP(&newEnvironmentOpts.count, "count", "c", 1, "number of lab users (1-1000)")
	newEnvironmentCmd.Flags().StringVarP(&newEnvironmentOpts.prefix, "prefix", "p", "", "principal name prefix (required)")
	newEnvironmentCmd.Flags().BoolVar(&newEnvironmentOpts.individualGroups, "individual-groups", false, "one group per user")
	newEnvironmentCmd.Flags().BoolVar(&newEnvironmentOpts.sharedGroup, "shared-group", false, "a single group holding every user")
	newEnvironmentCmd.Flags().BoolVar(&newEnvironmentOpts.createPolicy, "create-policy", false, "create a provisioning policy for the environment")
	newEnvironmentCmd.Flags().BoolVar(&newEnvironmentOpts.assignPolicy, "assign-policy", false, "assign the policy to the created groups (implies --create-policy)")
	newEnvironmentCmd.Flags().StringVar(&newEnvironmentOpts.connectionID, "connection-id", "", "Azure network connection id for the policy")
	newEnvironmentCmd.Flags().StringVar(&newEnvironmentOpts.regionName, "region", "", "Microsoft-hosted network region for the policy")
	newEnvironmentCmd.Flags().StringVar(&newEnvironmentOpts.imageID, "image", "", "policy image id")
	newEnvironmentCmd.Flags().BoolVar(&newEnvironmentOpts.enableSSO, "sso", false, "enable single sign-on on the policy")
	newEnvironmentCmd.Flags().StringVar(&newEnvironmentOpts.domain, "domain", "", "override the tenant default domain")
	newEnvironmentCmd.Flags().BoolVar(&newEnvironmentOpts.useFixedPassword, "fixed-password", false, "use the configured fixed password for every user")
	newEnvironmentCmd.Flags().StringVar(&newEnvironmentOpts.csvPath, "csv", "", "export credentials to a CSV file")
	_ = newEnvironmentCmd.MarkFlagRequired("prefix")
	newEnvironmentCmd.MarkFlagsMutuallyExclusive("individual-groups", "shared-group")
	newEnvironmentCmd.MarkFlagsMutuallyExclusive("connection-id", "region")
	rootCmd.AddCommand(newEnvironmentCmd)
}

var newEnvironmentCmd = &cobra.Command{
	Use:          "new-environment",
	Short:        "Provision a full lab: users, groups, and a provisioning policy",
	Long:         "Runs the full pipeline: creates the user batch, builds groups per the selected mode, then optionally creates and assigns a provisioning policy. Stages are best-effort; partial failure leaves partial state.",
	Run:          newEnvironmentCmdImpl,
	SilenceUsage: true,
}

func newEnvironmentCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	cfg := loadConfig()
	fixedPassword := ""
	if newEnvironmentOpts.useFixedPassword {
		if cfg.FixedPassword == "" {
			exit(fmt.Errorf("--fixed-password requires W365LAB_FIXED_PASSWORD to be set"))
		}
		fixedPassword = cfg.FixedPassword
	}

	var domainJoin lab.DomainJoin
	switch {
	case newEnvironmentOpts.connectionID != "":
		domainJoin = lab.AzureNetworkConnection{ConnectionID: newEnvironmentOpts.connectionID}
	case newEnvironmentOpts.regionName != "":
		domainJoin = lab.MicrosoftHostedNetwork{RegionName: newEnvironmentOpts.regionName}
	}

	result, err := orchestrator.CreateEnvironment(ctx, lab.EnvironmentOptions{
		UserCount:          newEnvironmentOpts.count,
		Prefix:             newEnvironmentOpts.prefix,
		IndividualGroups:   newEnvironmentOpts.individualGroups,
		SharedGroup:        newEnvironmentOpts.sharedGroup,
		CreatePolicy:       newEnvironmentOpts.createPolicy || newEnvironmentOpts.assignPolicy,
		AssignPolicy:       newEnvironmentOpts.assignPolicy,
		DomainJoin:         domainJoin,
		ImageID:            newEnvironmentOpts.imageID,
		EnableSingleSignOn: newEnvironmentOpts.enableSSO,
		Domain:             newEnvironmentOpts.domain,
		FixedPassword:      fixedPassword,
	})
	if err != nil {
		exit(err)
	}

	userCount, groupCount, policyCount := result.Counts()
	fmt.Printf("🚀 Environment ready in %s: %d user(s), %d group(s), %d policy(ies)\n",
		result.Duration.Round(timeRounding), userCount, groupCount, policyCount)
	fmt.Printf("  Users:  %s\n", result.Users.Report.Summary())
	if groupCount > 0 || len(result.GroupReport.Failed) > 0 {
		fmt.Printf("  Groups: %s\n", result.GroupReport.Summary())
	}
	if result.Policy != nil {
		fmt.Printf("  Policy: %s (%s)\n", result.Policy.DisplayName, result.Policy.ID)
		fmt.Printf("  Assignments: %s\n", result.AssignmentReport.Summary())
	}

	if newEnvironmentOpts.csvPath != "" && !flagDryRun {
		if err := exportCredentialsCSV(newEnvironmentOpts.csvPath, result.Users.Credentials); err != nil {
			exit(err)
		}
		fmt.Printf("Credentials exported to %s\n", newEnvironmentOpts.csvPath)
	}
}
