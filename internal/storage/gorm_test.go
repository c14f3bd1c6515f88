package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyserve/internal/domain"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	store, err := NewGormStore(filepath.Join(t.TempDir(), "hyserve.db"))
	require.NoError(t, err)
	return store
}

func TestDefaultSettingsBootstrap(t *testing.T) {
	store := newTestStore(t)

	start, end, err := store.GetPortRange()
	require.NoError(t, err)
	assert.Equal(t, 5520, start)
	assert.Equal(t, 5560, end)

	memMin, memMax, mode, err := store.LaunchDefaults()
	require.NoError(t, err)
	assert.Equal(t, "2G", memMin)
	assert.Equal(t, "4G", memMax)
	assert.Equal(t, domain.AuthModeAuthenticated, mode)
}

func TestProfileRoundTrip(t *testing.T) {
	store := newTestStore(t)

	p := &domain.Profile{
		ID:         "p1",
		Name:       "dev",
		FolderName: "dev",
		Port:       5520,
		MemoryMin:  "2G",
		MemoryMax:  "4G",
		AuthMode:   domain.AuthModeOffline,
		AllowOp:    true,
		Status:     string(domain.StatusStopped),
		CreatedAt:  time.Now(),
	}
	require.NoError(t, store.SaveProfile(p))

	got, err := store.GetProfileByID("p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "dev", got.Name)
	assert.Equal(t, domain.AuthModeOffline, got.AuthMode)
	assert.True(t, got.AllowOp)

	missing, err := store.GetProfileByID("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := store.ListProfiles()
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, store.UpdateStatus("p1", string(domain.StatusRunning)))
	got, err = store.GetProfileByID("p1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRunning), got.Status)

	require.NoError(t, store.DeleteProfile("p1"))
	got, err = store.GetProfileByID("p1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateProfileFields(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveProfile(&domain.Profile{ID: "p1", Name: "dev", MemoryMax: "4G"}))

	assert.Error(t, store.UpdateProfile("p1", nil, nil, nil), "no fields")

	name := "renamed"
	mem := "8G"
	require.NoError(t, store.UpdateProfile("p1", &name, &mem, nil))

	got, err := store.GetProfileByID("p1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, "8G", got.MemoryMax)
}

func TestPortRangeValidation(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.SetPortRange(0, 100))
	assert.Error(t, store.SetPortRange(200, 100))

	require.NoError(t, store.SetPortRange(6000, 6050))
	start, end, err := store.GetPortRange()
	require.NoError(t, err)
	assert.Equal(t, 6000, start)
	assert.Equal(t, 6050, end)
}
