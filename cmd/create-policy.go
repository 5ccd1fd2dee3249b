package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awillows/win365-lab-builder/pkg/lab"
)

var createPolicyOpts struct {
	name         string
	description  string
	connectionID string
	regionName   string
	imageID      string
	imageType    string
	locale       string
	enableSSO    bool
}

func init() {
	createPolicyCmd.Flags().StringVarP(&createPolicyOpts.name, "name", "n", "", "policy name (required)")
	createPolicyCmd.Flags().StringVar(&createPolicyOpts.description, "description", "", "policy description")
	createPolicyCmd.Flags().StringVar(&createPolicyOpts.connectionID, "connection-id", "", "Azure network connection id (mutually exclusive with --region)")
	createPolicyCmd.Flags().StringVar(&createPolicyOpts.regionName, "region", "", "Microsoft-hosted network region (mutually exclusive with --connection-id)")
	createPolicyCmd.Flags().StringVar(&createPolicyOpts.imageID, "image", "", "gallery or custom image id")
	createPolicyCmd.Flags().StringVar(&createPolicyOpts.imageType, "image-type", "gallery", "image type: gallery or custom")
	createPolicyCmd.Flags().StringVar(&createPolicyOpts.locale, "locale", "en-US", "Windows locale")
	createPolicyCmd.Flags().BoolVar(&createPolicyOpts.enableSSO, "sso", false, "enable single sign-on")
	_ = createPolicyCmd.MarkFlagRequired("name")
	createPolicyCmd.MarkFlagsMutuallyExclusive("connection-id", "region")
	rootCmd.AddCommand(createPolicyCmd)
}

var createPolicyCmd = &cobra.Command{
	Use:          "create-policy",
	Short:        "Create a Cloud PC provisioning policy, returning the existing one on name collision",
	Run:          createPolicyCmdImpl,
	SilenceUsage: true,
}

func createPolicyCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	var domainJoin lab.DomainJoin
	switch {
	case createPolicyOpts.connectionID != "":
		domainJoin = lab.AzureNetworkConnection{ConnectionID: createPolicyOpts.connectionID}
	case createPolicyOpts.regionName != "":
		domainJoin = lab.MicrosoftHostedNetwork{RegionName: createPolicyOpts.regionName}
	}

	imageID := createPolicyOpts.imageID
	if imageID == "" {
		imageID = "microsoftwindowsdesktop_windows-ent-cpc_win11-24h2-ent-cpc"
	}

	policy, created, err := orchestrator.EnsurePolicy(ctx, lab.CreatePolicyOptions{
		Name:               createPolicyOpts.name,
		Description:        createPolicyOpts.description,
		DomainJoin:         domainJoin,
		ImageID:            imageID,
		ImageType:          createPolicyOpts.imageType,
		Locale:             createPolicyOpts.locale,
		EnableSingleSignOn: createPolicyOpts.enableSSO,
	})
	if err != nil {
		exit(err)
	}
	if created {
		fmt.Printf("Policy %q created (%s)\n", policy.DisplayName, policy.ID)
	} else {
		fmt.Printf("Policy %q already exists (%s)\n", policy.DisplayName, policy.ID)
	}
}
