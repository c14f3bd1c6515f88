package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"hyserve/pkg/sdk"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage profile backups",
}

var backupName string

var backupCreateCmd = &cobra.Command{
	Use:   "create [id]",
	Short: "Create a backup of a profile directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := Client.CreateBackup(args[0], backupName); err != nil {
			log.Fatalf("Error creating backup: %v", err)
		}
		fmt.Println("Backup created successfully.")
	},
}

var backupListProfile string

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups",
	Run: func(cmd *cobra.Command, args []string) {
		var backups []sdk.BackupInfo
		var err error
		if backupListProfile != "" {
			backups, err = Client.ListBackups(backupListProfile)
		} else {
			backups, err = Client.ListAllBackups()
		}
		if err != nil {
			log.Fatalf("Error listing backups: %v", err)
		}

		fmt.Println("Backups:")
		for _, b := range backups {
			fmt.Printf("- %s (%.1f MB)\n", b.Name, float64(b.Size)/1024/1024)
		}
	},
}

var restoreProfileID, restoreNewName string

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [name]",
	Short: "Restore a backup into a stopped or new profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if restoreProfileID == "" && restoreNewName == "" {
			log.Fatal("Specify either --profile or --new-name")
		}
		err := Client.RestoreBackup(args[0], sdk.RestoreBackupRequest{
			ProfileID:      restoreProfileID,
			NewProfileName: restoreNewName,
		})
		if err != nil {
			log.Fatalf("Error restoring backup: %v", err)
		}
		fmt.Println("Backup restored successfully.")
	},
}

var backupDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a backup",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := Client.DeleteBackup(args[0]); err != nil {
			log.Fatalf("Error deleting backup: %v", err)
		}
		fmt.Println("Backup deleted successfully.")
	},
}

func init() {
	backupCreateCmd.Flags().StringVar(&backupName, "name", "", "Backup name (defaults to the profile name)")
	backupListCmd.Flags().StringVar(&backupListProfile, "profile", "", "Only list backups of this profile")
	backupRestoreCmd.Flags().StringVar(&restoreProfileID, "profile", "", "Restore into this stopped profile")
	backupRestoreCmd.Flags().StringVar(&restoreNewName, "new-name", "", "Restore into a new profile with this name")

	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd, backupDeleteCmd)
	RootCmd.AddCommand(backupCmd)
}
