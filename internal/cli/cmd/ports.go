package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "Manage the port allocation range",
}

var portsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the port range",
	Run: func(cmd *cobra.Command, args []string) {
		pr, err := Client.GetPortRange()
		if err != nil {
			log.Fatalf("Error getting port range: %v", err)
		}
		fmt.Printf("Start port: %d\n", pr.Start)
		fmt.Printf("End port:   %d\n", pr.End)
		fmt.Printf("Range:      %d ports available\n", pr.End-pr.Start+1)
	},
}

var portsStart, portsEnd int

var portsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the port range",
	Run: func(cmd *cobra.Command, args []string) {
		if portsStart == 0 || portsEnd == 0 {
			log.Fatal("Both --start and --end are required")
		}
		if err := Client.SetPortRange(portsStart, portsEnd); err != nil {
			log.Fatalf("Error setting port range: %v", err)
		}
		fmt.Printf("New range: %d - %d\n", portsStart, portsEnd)
	},
}

func init() {
	portsSetCmd.Flags().IntVar(&portsStart, "start", 0, "Start port")
	portsSetCmd.Flags().IntVar(&portsEnd, "end", 0, "End port")
	portsCmd.AddCommand(portsGetCmd, portsSetCmd)

	RootCmd.AddCommand(portsCmd)
}
