package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyserve/internal/profile"
	"hyserve/internal/storage"
)

func newTestManager(t *testing.T) (*Manager, *profile.Manager) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewGormStore(filepath.Join(dir, "hyserve.db"))
	require.NoError(t, err)
	profiles := profile.NewManager(filepath.Join(dir, "servers"), store)
	return NewManager(filepath.Join(dir, "backups"), profiles), profiles
}

func TestCreateAndListBackups(t *testing.T) {
	m, profiles := newTestManager(t)

	p, err := profiles.Create("dev", profile.CreateOptions{Port: 5525})
	require.NoError(t, err)

	dir, err := profiles.Dir(p)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "universe.dat"), []byte("world"), 0644))

	path, err := m.CreateBackup(context.Background(), p.ID, "", nil)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.NotContains(t, path, ".temp")

	backups, err := m.ListBackups(p.ID)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, filepath.Base(path), backups[0].Name)

	all, err := m.ListAllBackups()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateBackupUnknownProfile(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.CreateBackup(context.Background(), "ghost", "", nil)
	assert.Error(t, err)
}

func TestRestoreIntoNewProfile(t *testing.T) {
	m, profiles := newTestManager(t)

	p, err := profiles.Create("dev", profile.CreateOptions{Port: 5525})
	require.NoError(t, err)
	dir, err := profiles.Dir(p)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "universe.dat"), []byte("world"), 0644))

	path, err := m.CreateBackup(context.Background(), p.ID, "", nil)
	require.NoError(t, err)

	require.NoError(t, m.RestoreBackup(filepath.Base(path), "", "restored"))

	list, err := profiles.List()
	require.NoError(t, err)
	require.Len(t, list, 2)

	var restoredDir string
	for _, q := range list {
		if q.Name == "restored" {
			restoredDir, err = profiles.Dir(&q)
			require.NoError(t, err)
		}
	}
	require.NotEmpty(t, restoredDir)

	data, err := os.ReadFile(filepath.Join(restoredDir, "universe.dat"))
	require.NoError(t, err)
	assert.Equal(t, "world", string(data))
}

func TestRestoreRejectsRunningProfile(t *testing.T) {
	m, profiles := newTestManager(t)

	p, err := profiles.Create("dev", profile.CreateOptions{Port: 5525})
	require.NoError(t, err)
	require.NoError(t, profiles.Store.UpdateStatus(p.ID, "RUNNING"))

	err = m.RestoreBackup("whatever.zip", p.ID, "")
	assert.Error(t, err)
}

func TestDeleteBackupValidatesName(t *testing.T) {
	m, _ := newTestManager(t)
	assert.Error(t, m.DeleteBackup("../etc/passwd"))
	assert.Error(t, m.DeleteBackup("missing.zip"))
}
