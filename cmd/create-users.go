package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/awillows/win365-lab-builder/pkg/lab"
)

var createUsersOpts struct {
	count             int
	prefix            string
	startNumber       int
	domain            string
	usageLocation     string
	useFixedPassword  bool
	skipLicenseGroup  bool
	skipRoleGroup     bool
	returnCredentials bool
	csvPath           string
}

func init() {
	createUsersCmd.Flags().IntVarP(&createUsersOpts.count, "count", "c", 1, "number of users to create (1-1000)")
	createUsersCmd.Flags().StringVarP(&createUsersOpts.prefix, "prefix", "p", "", "principal name prefix (required)")
	createUsersCmd.Flags().IntVar(&createUsersOpts.startNumber, "start", 1, "first sequence number (1-9999)")
	createUsersCmd.Flags().StringVar(&createUsersOpts.domain, "domain", "", "override the tenant default domain")
	createUsersCmd.Flags().StringVar(&createUsersOpts.usageLocation, "usage-location", "", "override the configured usage location")
	createUsersCmd.Flags().BoolVar(&createUsersOpts.useFixedPassword, "fixed-password", false, "use the configured fixed password for every user")
	createUsersCmd.Flags().BoolVar(&createUsersOpts.skipLicenseGroup, "skip-license-group", false, "do not add users to the license group")
	createUsersCmd.Flags().BoolVar(&createUsersOpts.skipRoleGroup, "skip-role-group", false, "do not add users to the role group")
	createUsersCmd.Flags().BoolVar(&createUsersOpts.returnCredentials, "show-credentials", false, "print the generated credentials")
	createUsersCmd.Flags().StringVar(&createUsersOpts.csvPath, "csv", "", "export credentials to a CSV file")
	_ = createUsersCmd.MarkFlagRequired("prefix")
	rootCmd.AddCommand(createUsersCmd)
}

var createUsersCmd = &cobra.Command{
	Use:          "create-users",
	Short:        "Create a numbered batch of lab users",
	Long:         "Creates lab users named {prefix}{NNN}@{domain}, skipping any that already exist. Each user gets a unique random password unless a fixed one is configured.",
	Run:          createUsersCmdImpl,
	SilenceUsage: true,
}

func createUsersCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	orchestrator, azClient := newOrchestrator()
	defer azClient.CloseIdleConnections()

	cfg := loadConfig()
	fixedPassword := ""
	if createUsersOpts.useFixedPassword {
		if cfg.FixedPassword == "" {
			exit(fmt.Errorf("--fixed-password requires W365LAB_FIXED_PASSWORD to be set"))
		}
		fixedPassword = cfg.FixedPassword
	}

	result, err := orchestrator.CreateUsers(ctx, lab.CreateUsersOptions{
		Count:             createUsersOpts.count,
		Prefix:            createUsersOpts.prefix,
		StartNumber:       createUsersOpts.startNumber,
		Domain:            createUsersOpts.domain,
		UsageLocation:     createUsersOpts.usageLocation,
		FixedPassword:     fixedPassword,
		AddToLicenseGroup: !createUsersOpts.skipLicenseGroup,
		AddToRoleGroup:    !createUsersOpts.skipRoleGroup,
	})
	if err != nil {
		exit(err)
	}

	fmt.Printf("Users: %s\n", result.Report.Summary())
	for _, failure := range result.Report.Failed {
		fmt.Printf("  ⚠️  %s\n", failure.Error())
	}

	if createUsersOpts.returnCredentials && !flagDryRun {
		fmt.Println("\nUserPrincipalName,Password")
		for _, credential := range result.Credentials {
			fmt.Printf("%s,%s\n", credential.UserPrincipalName, credential.Password)
		}
	}

	if createUsersOpts.csvPath != "" && !flagDryRun {
		if err := exportCredentialsCSV(createUsersOpts.csvPath, result.Credentials); err != nil {
			exit(err)
		}
		fmt.Printf("Credentials exported to %s\n", createUsersOpts.csvPath)
	}
}

func exportCredentialsCSV(path string, credentials []lab.Credential) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"DisplayName", "UserPrincipalName", "Username", "Password"}); err != nil {
		return err
	}
	for _, credential := range credentials {
		record := []string{credential.DisplayName, credential.UserPrincipalName, credential.Username, credential.Password}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
