package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hyserve/internal/domain"
)

// Definition is the YAML shape used for profile import and export.
type Definition struct {
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

// Export writes a profile's definition to the given YAML file.
func (m *Manager) Export(id string, path string) error {
	p, err := m.Store.GetProfileByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("profile not found")
	}

	def := Definition{
		Name:               p.Name,
		Port:               p.Port,
		MemoryMin:          p.MemoryMin,
		MemoryMax:          p.MemoryMax,
		AuthMode:           string(p.AuthMode),
		AllowOp:            p.AllowOp,
		AcceptEarlyPlugins: p.AcceptEarlyPlugins,
		JavaArgs:           p.JavaArgs,
		ServerArgs:         p.ServerArgs,
	}

	data, err := yaml.Marshal(&def)
	if err != nil {
		return fmt.Errorf("error encoding profile: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Import creates a profile from a YAML definition file. The exported port is
// intentionally ignored so imports never collide with existing profiles.
func (m *Manager) Import(path string) (*domain.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading definition: %w", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("error parsing definition: %w", err)
	}
	if def.Name == "" {
		return nil, fmt.Errorf("definition is missing a name")
	}

	return m.Create(def.Name, CreateOptions{
		MemoryMin:          def.MemoryMin,
		MemoryMax:          def.MemoryMax,
		AuthMode:           domain.AuthMode(def.AuthMode),
		AllowOp:            def.AllowOp,
		AcceptEarlyPlugins: def.AcceptEarlyPlugins,
		JavaArgs:           def.JavaArgs,
		ServerArgs:         def.ServerArgs,
	})
}
