// Package cmd defines the hyserve-cli command tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hyserve/pkg/sdk"
)

var (
	Client  *sdk.Client
	BaseURL string
)

var RootCmd = &cobra.Command{
	Use:   "hyserve-cli",
	Short: "CLI for the hyserve Hytale server daemon",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		Client = sdk.NewClient(BaseURL)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute() {
	RootCmd.PersistentFlags().StringVar(&BaseURL, "url", "http://localhost:8420", "URL of the hyserve daemon")

	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
