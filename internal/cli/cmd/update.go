package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for daemon updates",
	Run: func(cmd *cobra.Command, args []string) {
		info, err := Client.CheckUpdates()
		if err != nil {
			log.Fatalf("Error checking updates: %v", err)
		}

		fmt.Printf("Current version: %s\n", info.CurrentVersion)
		fmt.Printf("Latest version:  %s\n", info.LatestVersion)
		if info.UpdateAvailable {
			fmt.Printf("Update available: %s\n", info.ReleaseURL)
		} else {
			fmt.Println("You are up to date.")
		}
	},
}

func init() {
	RootCmd.AddCommand(updateCmd)
}
