// Package profile manages launch profiles: named, persisted server
// configurations with their on-disk directories.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"hyserve/internal/domain"
	"hyserve/internal/storage"
)

type Manager struct {
	ServersPath string
	Store       *storage.GormStore
}

func NewManager(serversPath string, store *storage.GormStore) *Manager {
	return &Manager{
		ServersPath: serversPath,
		Store:       store,
	}
}

var folderNameClean = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

func sanitizeFolderName(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	sanitized := folderNameClean.ReplaceAllString(name, "")
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}
	return sanitized
}

// CreateOptions carries optional overrides; zero values fall back to the
// stored launch defaults.
type CreateOptions struct {
	Port               int
	MemoryMin          string
	MemoryMax          string
	AuthMode           domain.AuthMode
	AllowOp            bool
	AcceptEarlyPlugins bool
	JavaArgs           string
	ServerArgs         string
}

// Create registers a new profile and prepares its server directory.
func (m *Manager) Create(name string, opts CreateOptions) (*domain.Profile, error) {
	if strings.ContainsAny(name, "\\/:*?\"<>|") || strings.Contains(name, "..") {
		return nil, fmt.Errorf("invalid profile name: contains forbidden characters")
	}

	id := uuid.New().String()
	folderName := sanitizeFolderName(name)
	if folderName == "" {
		folderName = id[:8]
	}
	serverDir := filepath.Join(m.ServersPath, folderName)

	if _, err := os.Stat(serverDir); !os.IsNotExist(err) {
		folderName = fmt.Sprintf("%s-%s", folderName, id[:8])
		serverDir = filepath.Join(m.ServersPath, folderName)
	}

	memMin, memMax, authMode, err := m.Store.LaunchDefaults()
	if err != nil {
		return nil, fmt.Errorf("error loading launch defaults: %w", err)
	}
	if opts.MemoryMin != "" {
		memMin = opts.MemoryMin
	}
	if opts.MemoryMax != "" {
		memMax = opts.MemoryMax
	}
	if opts.AuthMode != "" {
		authMode = opts.AuthMode
	}

	port := opts.Port
	if port == 0 {
		port, err = AllocatePort(m.Store)
		if err != nil {
			return nil, fmt.Errorf("error allocating port: %w", err)
		}
	}

	if err := os.MkdirAll(serverDir, 0755); err != nil {
		return nil, fmt.Errorf("filesystem error: %w", err)
	}
	if err := WriteServerConfig(serverDir, port); err != nil {
		return nil, fmt.Errorf("error writing server config: %w", err)
	}

	p := &domain.Profile{
		ID:                 id,
		Name:               name,
		FolderName:         folderName,
		Port:               port,
		MemoryMin:          memMin,
		MemoryMax:          memMax,
		AuthMode:           authMode,
		AllowOp:            opts.AllowOp,
		AcceptEarlyPlugins: opts.AcceptEarlyPlugins,
		JavaArgs:           opts.JavaArgs,
		ServerArgs:         opts.ServerArgs,
		Status:             string(domain.StatusStopped),
		CreatedAt:          time.Now(),
	}

	if err := m.Store.SaveProfile(p); err != nil {
		os.RemoveAll(serverDir)
		return nil, fmt.Errorf("DB error: %w", err)
	}
	return p, nil
}

func (m *Manager) Get(id string) (*domain.Profile, error) {
	return m.Store.GetProfileByID(id)
}

func (m *Manager) List() ([]domain.Profile, error) {
	return m.Store.ListProfiles()
}

// Delete removes the profile record and its server directory.
func (m *Manager) Delete(id string) error {
	p, err := m.Store.GetProfileByID(id)
	if err != nil || p == nil {
		return fmt.Errorf("profile not found")
	}

	folderName := p.FolderName
	if folderName == "" {
		folderName = sanitizeFolderName(p.Name)
	}
	serverDir := filepath.Join(m.ServersPath, folderName)

	if err := os.RemoveAll(serverDir); err != nil {
		return fmt.Errorf("error deleting server files: %w", err)
	}
	if err := m.Store.DeleteProfile(id); err != nil {
		return fmt.Errorf("error deleting profile from database: %w", err)
	}
	return nil
}

// Dir returns the absolute server directory for a profile.
func (m *Manager) Dir(p *domain.Profile) (string, error) {
	folderName := p.FolderName
	if folderName == "" {
		folderName = p.ID
	}
	return filepath.Abs(filepath.Join(m.ServersPath, folderName))
}

// WriteServerConfig keeps the Hytale server's own config file in sync with
// the profile's port.
func WriteServerConfig(serverDir string, port int) error {
	path := filepath.Join(serverDir, "config.json")

	cfg := map[string]interface{}{}
	if data, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(data, &cfg)
	}
	cfg["ServerPort"] = port

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
