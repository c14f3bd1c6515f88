// Package config loads the daemon configuration file, creating one with
// defaults on first run.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	defaultConfigName   = "config.json"
	defaultServersDir   = "servers"
	defaultBackupsDir   = "backups"
	defaultRuntimesDir  = "runtimes"
	defaultDatabaseFile = "hyserve.db"
	defaultPort         = 8420
	defaultLogLevel     = "info"
)

type Config struct {
	ServersPath  string `json:"servers_path"`
	BackupsPath  string `json:"backups_path"`
	RuntimesPath string `json:"runtimes_path"`
	DatabasePath string `json:"database_path"`
	Port         int    `json:"port"`
	LogLevel     string `json:"log_level"`
	LogPretty    bool   `json:"log_pretty"`
}

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "hyserve"), nil
}

func LoadConfig(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}

	configPath := filepath.Join(configDir, defaultConfigName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath, configDir)
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	return &cfg, nil
}

func createDefaultConfig(configPath, configDir string) (*Config, error) {
	cfg := Config{
		ServersPath:  filepath.Join(configDir, defaultServersDir),
		BackupsPath:  filepath.Join(configDir, defaultBackupsDir),
		RuntimesPath: filepath.Join(configDir, defaultRuntimesDir),
		DatabasePath: filepath.Join(configDir, defaultDatabaseFile),
		Port:         defaultPort,
		LogLevel:     defaultLogLevel,
		LogPretty:    true,
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return nil, err
	}

	return &cfg, nil
}
