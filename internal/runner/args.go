package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"hyserve/internal/domain"
)

const (
	// ServerJarName is the archive the Hytale runtime boots from.
	ServerJarName = "HytaleServer.jar"
	// AssetsBundleName is passed with --assets when present in the server
	// directory.
	AssetsBundleName = "Assets.zip"
)

// BuildArgs assembles the process argument list. Order matters to the
// target runtime: memory flags, extra runtime flags, jar selector, optional
// assets flag, bind address, auth mode, optional boolean flags, trailing
// server arguments.
func BuildArgs(cfg domain.ServerConfig) []string {
	args := []string{
		"-Xms" + cfg.MemoryMin,
		"-Xmx" + cfg.MemoryMax,
	}
	args = append(args, cfg.JavaArgs...)
	args = append(args, "-jar", ServerJarName)

	if _, err := os.Stat(filepath.Join(cfg.Dir, AssetsBundleName)); err == nil {
		args = append(args, "--assets", AssetsBundleName)
	}

	args = append(args, "--bind", fmt.Sprintf("0.0.0.0:%d", cfg.Port))
	args = append(args, "--auth-mode", string(cfg.AuthMode))

	if cfg.AllowOp {
		args = append(args, "--allow-op")
	}
	if cfg.AcceptEarlyPlugins {
		args = append(args, "--accept-early-plugins")
	}

	args = append(args, cfg.ServerArgs...)
	return args
}

// ValidateFiles checks that the files a start call needs are present in the
// server directory.
func ValidateFiles(dir string) error {
	jar := filepath.Join(dir, ServerJarName)
	if _, err := os.Stat(jar); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("server jar not found at %s", jar)
		}
		return fmt.Errorf("error accessing %s: %w", jar, err)
	}
	return nil
}
