package updater

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewerVersion(t *testing.T) {
	assert.True(t, newerVersion("v1.2.0", "v1.1.9"))
	assert.False(t, newerVersion("0.9.0", "1.0.0"))
	assert.False(t, newerVersion("v2.0.0", "2.0.0"))
	assert.True(t, newerVersion("1.2.0.1", "1.2.0"))
	assert.False(t, newerVersion("v1.2", "v1.2.0"))
}

func newTestChecker(tagNames ...string) (*Checker, *httptest.Server) {
	tags := make([]map[string]string, 0, len(tagNames))
	for _, name := range tagNames {
		tags = append(tags, map[string]string{"name": name})
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tags)
	}))
	c := NewChecker(zerolog.Nop())
	c.apiBase = srv.URL
	return c, srv
}

func TestCheckReportsNewerTag(t *testing.T) {
	c, srv := newTestChecker("v99.0.0", "v0.2.0")
	defer srv.Close()

	info, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, info.CurrentVersion)
	assert.Equal(t, "v99.0.0", info.LatestVersion)
	assert.True(t, info.UpdateAvailable)
	assert.Contains(t, info.ReleaseURL, "v99.0.0")
}

func TestCheckWithNoTags(t *testing.T) {
	c, srv := newTestChecker()
	defer srv.Close()

	info, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, info.LatestVersion)
	assert.False(t, info.UpdateAvailable)
	assert.Empty(t, info.ReleaseURL)
}

func TestCheckSurfacesUpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewChecker(zerolog.Nop())
	c.apiBase = srv.URL
	_, err := c.Check(context.Background())
	assert.Error(t, err)
}
