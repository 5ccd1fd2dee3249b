package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(testConnectionCmd)
}

var testConnectionCmd = &cobra.Command{
	Use:          "test-connection",
	Short:        "Verify Graph connectivity with one cheap read",
	Run:          testConnectionCmdImpl,
	SilenceUsage: true,
}

func testConnectionCmdImpl(cmd *cobra.Command, args []string) {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	azClient := connectAndCreateClient()
	defer azClient.CloseIdleConnections()

	if azClient.TestConnection(ctx) {
		fmt.Println("✅ Connected to Microsoft Graph")
		return
	}
	exit(fmt.Errorf("not connected (hint: retry with --device-code on headless hosts)"))
}
