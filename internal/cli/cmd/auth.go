package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect and control the device-code login flow",
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current authentication session",
	Run: func(cmd *cobra.Command, args []string) {
		session, err := Client.AuthSession()
		if err != nil {
			log.Fatalf("Error fetching auth session: %v", err)
		}

		fmt.Printf("State: %s\n", session.State)
		if session.State == "IDLE" {
			return
		}
		fmt.Printf("Source: %s\n", session.Source)
		if session.ProfileID != "" {
			fmt.Printf("Profile: %s\n", session.ProfileID)
		}
		if session.DeviceCode != "" {
			fmt.Printf("Code: %s\n", session.DeviceCode)
		}
		if session.VerificationURL != "" {
			fmt.Printf("URL: %s\n", session.VerificationURL)
		}
		if session.Message != "" {
			fmt.Printf("Message: %s\n", session.Message)
		}
	},
}

var authResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the current authentication session",
	Run: func(cmd *cobra.Command, args []string) {
		if err := Client.ResetAuth(); err != nil {
			log.Fatalf("Error resetting auth session: %v", err)
		}
		fmt.Println("Auth session reset.")
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login [id]",
	Short: "Trigger device-code login on a running server",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := Client.TriggerLogin(args[0]); err != nil {
			log.Fatalf("Error triggering login: %v", err)
		}
		fmt.Println("Login triggered. Watch `auth status` for the device code.")
	},
}

func init() {
	authCmd.AddCommand(authStatusCmd, authResetCmd, authLoginCmd)
	RootCmd.AddCommand(authCmd)
}
