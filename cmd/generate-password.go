package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awillows/win365-lab-builder/internal/password"
)

func init() {
	rootCmd.AddCommand(generatePasswordCmd)
}

var generatePasswordCmd = &cobra.Command{
	Use:          "generate-password",
	Short:        "Print one random lab password without touching the tenant",
	Run:          generatePasswordCmdImpl,
	SilenceUsage: true,
}

func generatePasswordCmdImpl(cmd *cobra.Command, args []string) {
	pw, err := password.Generate()
	if err != nil {
		exit(err)
	}
	fmt.Println(pw)
}
