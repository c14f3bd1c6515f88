// Package backup archives profile directories to zip files and restores
// them, either in place or into a freshly created profile.
package backup

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"hyserve/internal/domain"
	"hyserve/internal/jvm"
	"hyserve/internal/profile"
)

type Manager struct {
	BackupsPath string
	Profiles    *profile.Manager
}

func NewManager(backupsPath string, profiles *profile.Manager) *Manager {
	return &Manager{
		BackupsPath: backupsPath,
		Profiles:    profiles,
	}
}

type BackupInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func (m *Manager) DeleteBackup(name string) error {
	if strings.Contains(name, "..") {
		return fmt.Errorf("invalid backup name")
	}
	backupPath := filepath.Join(m.BackupsPath, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found")
	}
	return os.Remove(backupPath)
}

func (m *Manager) ListAllBackups() ([]BackupInfo, error) {
	files, err := os.ReadDir(m.BackupsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read backups directory: %w", err)
	}

	var backups []BackupInfo
	for _, file := range files {
		if file.IsDir() || strings.HasSuffix(file.Name(), ".temp") {
			continue
		}

		info, err := file.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Name: file.Name(),
			Size: info.Size(),
		})
	}

	return backups, nil
}

// ListBackups returns backups whose file names carry the profile's name.
func (m *Manager) ListBackups(profileID string) ([]BackupInfo, error) {
	p, err := m.Profiles.Get(profileID)
	if err != nil {
		return nil, fmt.Errorf("could not get profile info: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("profile with ID '%s' not found", profileID)
	}

	safeName := sanitizeFileName(p.Name)

	all, err := m.ListAllBackups()
	if err != nil {
		return nil, err
	}

	var backups []BackupInfo
	for _, b := range all {
		if strings.HasPrefix(b.Name, safeName) {
			backups = append(backups, b)
		}
	}
	return backups, nil
}

// CreateBackup zips the profile directory into the backups directory. The
// archive is written to a temp name first so interrupted runs leave no
// half-written backups behind.
func (m *Manager) CreateBackup(ctx context.Context, profileID string, backupName string, onProgress func(domain.ProgressEvent)) (string, error) {
	p, err := m.Profiles.Get(profileID)
	if err != nil {
		return "", fmt.Errorf("could not get profile info: %w", err)
	}
	if p == nil {
		return "", fmt.Errorf("profile with ID '%s' not found", profileID)
	}

	serverDir, err := m.Profiles.Dir(p)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(serverDir); os.IsNotExist(err) {
		return "", fmt.Errorf("profile directory does not exist")
	}

	if backupName == "" {
		backupName = p.Name
	}

	safeName := sanitizeFileName(backupName)
	timestamp := time.Now().Format("20060102-150405")
	backupFileName := fmt.Sprintf("%s-%s.zip", safeName, timestamp)
	backupFilePath := filepath.Join(m.BackupsPath, backupFileName)
	tempBackupFilePath := backupFilePath + ".temp"

	if err := os.MkdirAll(m.BackupsPath, 0755); err != nil {
		return "", fmt.Errorf("could not create backups directory: %w", err)
	}

	var totalSize int64
	filepath.Walk(serverDir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})

	backupFile, err := os.Create(tempBackupFilePath)
	if err != nil {
		return "", fmt.Errorf("could not create backup file: %w", err)
	}

	zipWriter := zip.NewWriter(backupFile)

	var processedSize int64
	var lastProgress int

	err = filepath.Walk(serverDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		relPath, err := filepath.Rel(serverDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(relPath)

		if info.IsDir() {
			header.Name += "/"
		} else {
			header.Method = zip.Deflate
		}

		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return err
		}

		if !info.IsDir() {
			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()
			if _, err = io.Copy(writer, file); err != nil {
				return err
			}

			processedSize += info.Size()
			if totalSize > 0 && onProgress != nil {
				percentage := (float64(processedSize) / float64(totalSize)) * 100
				progressInt := int(percentage)

				if progressInt > lastProgress {
					lastProgress = progressInt
					onProgress(domain.ProgressEvent{
						ProfileID: profileID,
						Message:   fmt.Sprintf("Backing up... %d%%", progressInt),
						Progress:  percentage,
					})
				}
			}
		}
		return nil
	})

	zipErr := zipWriter.Close()
	fileErr := backupFile.Close()

	if err != nil || zipErr != nil || fileErr != nil {
		os.Remove(tempBackupFilePath)
		if err != nil {
			return "", fmt.Errorf("error creating backup: %w", err)
		}
		return "", fmt.Errorf("error closing files: %v, %v", zipErr, fileErr)
	}

	if err := os.Rename(tempBackupFilePath, backupFilePath); err != nil {
		return "", fmt.Errorf("error renaming temp file: %w", err)
	}

	return backupFilePath, nil
}

// RestoreBackup unpacks a backup into an existing stopped profile, or into a
// newly created profile when targetProfileID is empty.
func (m *Manager) RestoreBackup(backupName string, targetProfileID string, newProfileName string) error {
	if strings.Contains(backupName, "..") {
		return fmt.Errorf("invalid backup name")
	}
	backupPath := filepath.Join(m.BackupsPath, backupName)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found")
	}

	var targetDir string
	var targetPort int

	if targetProfileID != "" {
		p, err := m.Profiles.Get(targetProfileID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("profile not found")
		}
		if p.Status != string(domain.StatusStopped) {
			return fmt.Errorf("profile must be stopped to restore a backup")
		}

		targetDir, err = m.Profiles.Dir(p)
		if err != nil {
			return err
		}
		targetPort = p.Port

		files, err := os.ReadDir(targetDir)
		if err != nil {
			return err
		}
		for _, file := range files {
			os.RemoveAll(filepath.Join(targetDir, file.Name()))
		}
	} else {
		if newProfileName == "" {
			return fmt.Errorf("profile name is required for a new profile")
		}

		p, err := m.Profiles.Create(newProfileName, profile.CreateOptions{})
		if err != nil {
			return err
		}
		targetDir, err = m.Profiles.Dir(p)
		if err != nil {
			return err
		}
		targetPort = p.Port
	}

	if err := jvm.Unzip(backupPath, targetDir); err != nil {
		return fmt.Errorf("failed to unzip backup: %w", err)
	}

	// The archive may carry the source profile's config; re-stamp the port.
	if err := profile.WriteServerConfig(targetDir, targetPort); err != nil {
		return fmt.Errorf("failed to update server config: %w", err)
	}

	return nil
}

var fileNameClean = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, " ", "-")
	sanitized := fileNameClean.ReplaceAllString(name, "")
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}
	return sanitized
}
