package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"hyserve/pkg/sdk"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage launch profiles",
}

var (
	createName       string
	createPort       int
	createMemMin     string
	createMemMax     string
	createAuthMode   string
	createAllowOp    bool
	createEarly      bool
	createJavaArgs   string
	createServerArgs string
)

var profileCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new profile",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := Client.CreateProfile(sdk.CreateProfileRequest{
			Name:               createName,
			Port:               createPort,
			MemoryMin:          createMemMin,
			MemoryMax:          createMemMax,
			AuthMode:           createAuthMode,
			AllowOp:            createAllowOp,
			AcceptEarlyPlugins: createEarly,
			JavaArgs:           createJavaArgs,
			ServerArgs:         createServerArgs,
		})
		if err != nil {
			log.Fatalf("Error creating profile: %v", err)
		}
		fmt.Printf("Profile created: %s (%s) Port: %d\n", p.Name, p.ID, p.Port)
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Run: func(cmd *cobra.Command, args []string) {
		profiles, err := Client.ListProfiles()
		if err != nil {
			log.Fatalf("Error listing profiles: %v", err)
		}

		fmt.Println("Profiles:")
		for _, p := range profiles {
			fmt.Printf("- %s (%s) [%s] Port: %d\n", p.Name, p.ID, p.Status, p.Port)
		}
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a profile and its server files",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := Client.DeleteProfile(args[0]); err != nil {
			log.Fatalf("Error deleting profile: %v", err)
		}
		fmt.Println("Profile deleted successfully.")
	},
}

// profileDefinition is the YAML shape for `profile export` / `profile import`.
type profileDefinition struct {
	Name               string `yaml:"name"`
	Port               int    `yaml:"port,omitempty"`
	MemoryMin          string `yaml:"memory_min,omitempty"`
	MemoryMax          string `yaml:"memory_max,omitempty"`
	AuthMode           string `yaml:"auth_mode,omitempty"`
	AllowOp            bool   `yaml:"allow_op,omitempty"`
	AcceptEarlyPlugins bool   `yaml:"accept_early_plugins,omitempty"`
	JavaArgs           string `yaml:"java_args,omitempty"`
	ServerArgs         string `yaml:"server_args,omitempty"`
}

var profileExportCmd = &cobra.Command{
	Use:   "export [id] [file]",
	Short: "Export a profile definition to a YAML file",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		p, err := Client.GetProfile(args[0])
		if err != nil {
			log.Fatalf("Error fetching profile: %v", err)
		}

		def := profileDefinition{
			Name:               p.Name,
			Port:               p.Port,
			MemoryMin:          p.MemoryMin,
			MemoryMax:          p.MemoryMax,
			AuthMode:           p.AuthMode,
			AllowOp:            p.AllowOp,
			AcceptEarlyPlugins: p.AcceptEarlyPlugins,
			JavaArgs:           p.JavaArgs,
			ServerArgs:         p.ServerArgs,
		}

		data, err := yaml.Marshal(&def)
		if err != nil {
			log.Fatalf("Error encoding profile: %v", err)
		}
		if err := os.WriteFile(args[1], data, 0644); err != nil {
			log.Fatalf("Error writing file: %v", err)
		}
		fmt.Printf("Profile exported to %s\n", args[1])
	},
}

var profileImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Create a profile from a YAML definition",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatalf("Error reading file: %v", err)
		}

		var def profileDefinition
		if err := yaml.Unmarshal(data, &def); err != nil {
			log.Fatalf("Error parsing definition: %v", err)
		}
		if def.Name == "" {
			log.Fatal("Definition is missing a name")
		}

		// The port is left to the daemon's allocator so imports never
		// collide with existing profiles.
		p, err := Client.CreateProfile(sdk.CreateProfileRequest{
			Name:               def.Name,
			MemoryMin:          def.MemoryMin,
			MemoryMax:          def.MemoryMax,
			AuthMode:           def.AuthMode,
			AllowOp:            def.AllowOp,
			AcceptEarlyPlugins: def.AcceptEarlyPlugins,
			JavaArgs:           def.JavaArgs,
			ServerArgs:         def.ServerArgs,
		})
		if err != nil {
			log.Fatalf("Error importing profile: %v", err)
		}
		fmt.Printf("Profile imported: %s (%s) Port: %d\n", p.Name, p.ID, p.Port)
	},
}

func init() {
	profileCreateCmd.Flags().StringVar(&createName, "name", "", "Profile name")
	profileCreateCmd.Flags().IntVar(&createPort, "port", 0, "Server port (0 = auto-allocate)")
	profileCreateCmd.Flags().StringVar(&createMemMin, "memory-min", "", "Minimum heap, e.g. 2G")
	profileCreateCmd.Flags().StringVar(&createMemMax, "memory-max", "", "Maximum heap, e.g. 4G")
	profileCreateCmd.Flags().StringVar(&createAuthMode, "auth-mode", "", "authenticated or offline")
	profileCreateCmd.Flags().BoolVar(&createAllowOp, "allow-op", false, "Allow operator commands")
	profileCreateCmd.Flags().BoolVar(&createEarly, "accept-early-plugins", false, "Accept early plugins")
	profileCreateCmd.Flags().StringVar(&createJavaArgs, "java-args", "", "Extra JVM flags")
	profileCreateCmd.Flags().StringVar(&createServerArgs, "server-args", "", "Extra server arguments")
	profileCreateCmd.MarkFlagRequired("name")

	profileCmd.AddCommand(profileCreateCmd, profileListCmd, profileDeleteCmd, profileExportCmd, profileImportCmd)
	RootCmd.AddCommand(profileCmd)
}
