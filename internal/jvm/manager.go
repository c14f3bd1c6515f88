// Package jvm locates or installs the Java runtime the Hytale server needs.
package jvm

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

type Manager struct {
	RuntimesPath string
	log          zerolog.Logger
}

func NewManager(runtimesPath string, log zerolog.Logger) *Manager {
	return &Manager{RuntimesPath: runtimesPath, log: log}
}

// EnsureJava returns the path to a java binary of at least the required major
// version, downloading a JRE from Adoptium when none is installed yet.
func (m *Manager) EnsureJava(version int) (string, error) {
	installDir := filepath.Join(m.RuntimesPath, fmt.Sprintf("java-%d", version))

	javaBinName := "java"
	if runtime.GOOS == "windows" {
		javaBinName = "java.exe"
	}

	if fi, err := os.Stat(installDir); err == nil && fi.IsDir() {
		if found, err := findJavaBin(installDir, javaBinName); err == nil {
			if ok, _ := validateJavaVersion(found, version); ok {
				if abs, err := filepath.Abs(found); err == nil {
					return abs, nil
				}
			}
		}
	}

	// Prefer a runtime the user already has before downloading one.
	if home := os.Getenv("JAVA_HOME"); home != "" {
		candidate := filepath.Join(home, "bin", javaBinName)
		if ok, _ := validateJavaVersion(candidate, version); ok {
			return candidate, nil
		}
	}
	if onPath, err := exec.LookPath(javaBinName); err == nil {
		if ok, _ := validateJavaVersion(onPath, version); ok {
			return onPath, nil
		}
	}

	m.log.Info().Int("version", version).Str("os", runtime.GOOS).Msg("java not detected, starting automatic installation")

	if err := m.downloadAndInstall(version, installDir); err != nil {
		_ = os.RemoveAll(installDir)
		return "", err
	}

	finalBin, err := findJavaBin(installDir, javaBinName)
	if err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(finalBin)
	if err != nil {
		return "", fmt.Errorf("could not get absolute path: %w", err)
	}

	if runtime.GOOS != "windows" {
		_ = os.Chmod(absPath, 0755)
	}

	return absPath, nil
}

func (m *Manager) downloadAndInstall(version int, destDir string) error {
	var ext string
	var apiOS string

	switch runtime.GOOS {
	case "windows":
		apiOS = "windows"
		ext = ".zip"
	case "darwin":
		apiOS = "mac"
		ext = ".tar.gz"
	case "linux":
		apiOS = "linux"
		ext = ".tar.gz"
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	arch := runtime.GOARCH
	switch arch {
	case "amd64":
		arch = "x64"
	case "arm64":
		arch = "aarch64"
	default:
		return fmt.Errorf("unsupported architecture: %s", arch)
	}

	url := fmt.Sprintf(
		"https://api.adoptium.net/v3/binary/latest/%d/ga/%s/%s/jre/hotspot/normal/eclipse",
		version, apiOS, arch,
	)

	m.log.Info().Str("url", url).Msg("downloading JRE")

	tmpFile, err := os.CreateTemp("", "jre-*"+ext)
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func(p string) { _ = os.Remove(p) }(tmpPath)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return fmt.Errorf("Adoptium API error: %d", resp.StatusCode)
	}

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("error closing temp file: %w", err)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}

	m.log.Info().Str("archive", ext).Msg("unpacking runtime")

	if ext == ".zip" {
		if err := Unzip(tmpPath, destDir); err != nil {
			return fmt.Errorf("unzip error: %w", err)
		}
	} else {
		if err := Untar(tmpPath, destDir); err != nil {
			return fmt.Errorf("untar error: %w", err)
		}
	}

	return nil
}

func findJavaBin(root, binName string) (string, error) {
	var foundPath string
	walkErr := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Name() == binName {
			if info.Mode()&0111 != 0 || runtime.GOOS == "windows" {
				foundPath = path
				return io.EOF
			}
		}
		return nil
	})

	if walkErr != nil && walkErr != io.EOF {
		return "", fmt.Errorf("error walking %s: %w", root, walkErr)
	}

	if foundPath != "" {
		return foundPath, nil
	}
	return "", fmt.Errorf("binary %s not found after installation", binName)
}

var versionPattern = regexp.MustCompile(`version\s+"([^"]+)"`)

func validateJavaVersion(javaPath string, required int) (bool, error) {
	cmd := exec.Command(javaPath, "-version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return false, nil
	}

	m := versionPattern.FindStringSubmatch(string(out))
	if len(m) < 2 {
		return false, nil
	}

	parts := strings.Split(m[1], ".")
	var major int
	if len(parts) > 0 {
		// Legacy "1.8.0_xyz" style reports the major in the second field.
		field := parts[0]
		if parts[0] == "1" && len(parts) > 1 {
			field = parts[1]
		}
		num := regexp.MustCompile(`\d+`).FindString(field)
		if num == "" {
			return false, nil
		}
		major, _ = strconv.Atoi(num)
	}

	return major >= required, nil
}
