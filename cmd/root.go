package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/awillows/win365-lab-builder/client"
	"github.com/awillows/win365-lab-builder/config"
	"github.com/awillows/win365-lab-builder/pkg/lab"
)

var (
	flagTenant     string
	flagClientID   string
	flagDeviceCode bool
	flagJSON       bool
	flagVerbose    bool
	flagDryRun     bool
	flagForce      bool
)

var rootCmd = &cobra.Command{
	Use:   "w365lab",
	Short: "Provision and tear down Windows 365 lab environments",
	Long: `w365lab drives Microsoft Graph to build disposable Windows 365 lab
environments: bulk test users, security groups, group-based licensing, and
Cloud PC provisioning and user-settings policies.

Configuration comes from W365LAB_* environment variables (optionally via a
.env file); flags override individual values.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmd.SetContext(setupLogger().WithContext(cmd.Context()))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagTenant, "tenant", "", "Azure AD tenant id or domain")
	rootCmd.PersistentFlags().StringVar(&flagClientID, "client-id", "", "app registration client id")
	rootCmd.PersistentFlags().BoolVar(&flagDeviceCode, "device-code", false, "force device-code sign-in (required on headless hosts)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "structured JSON logs instead of console output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "report what would happen without making changes")
	rootCmd.PersistentFlags().BoolVar(&flagForce, "force", false, "skip confirmation prompts on destructive operations")
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	if !flagJSON {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger
}

// loadConfig merges W365LAB_* environment configuration with flag overrides.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		exit(err)
	}
	if flagTenant != "" {
		cfg.TenantID = flagTenant
	}
	if flagClientID != "" {
		cfg.ClientID = flagClientID
	}
	if flagDeviceCode {
		cfg.UseDeviceCode = true
	}
	return cfg
}

func connectAndCreateClient() client.GraphClient {
	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		exit(err)
	}
	azClient, err := client.NewClient(cfg)
	if err != nil {
		exit(err)
	}
	return azClient
}

func newOrchestrator() (*lab.Orchestrator, client.GraphClient) {
	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		exit(err)
	}
	azClient, err := client.NewClient(cfg)
	if err != nil {
		exit(err)
	}
	return lab.New(azClient, cfg, lab.WithDryRun(flagDryRun)), azClient
}

// timeRounding trims sub-millisecond noise from reported durations.
const timeRounding = time.Millisecond

func exit(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// confirmTargets gates destructive commands. Returns nil when --force is
// set, which the lab package treats as proceed-without-asking.
func confirmTargets() lab.ConfirmFunc {
	if flagForce {
		return nil
	}
	return func(targets []string) bool {
		fmt.Printf("About to remove %d object(s):\n", len(targets))
		for _, target := range targets {
			fmt.Printf("  - %s\n", target)
		}
		fmt.Print("Continue? [y/N] ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}
