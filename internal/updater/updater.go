// Package updater surfaces newer hyserve releases by inspecting the
// project's published tags.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// CurrentVersion is the tag this build was cut from.
const CurrentVersion = "v0.3.0"

const (
	releaseRepo    = "hyserve/hyserve"
	defaultAPIBase = "https://api.github.com"
)

// UpdateInfo is the wire answer of the update endpoint.
type UpdateInfo struct {
	CurrentVersion  string `json:"current_version"`
	LatestVersion   string `json:"latest_version"`
	UpdateAvailable bool   `json:"update_available"`
	ReleaseURL      string `json:"release_url"`
}

// Checker queries the release listing. One instance lives in the daemon and
// is shared by every request.
type Checker struct {
	log     zerolog.Logger
	client  *http.Client
	apiBase string
}

func NewChecker(log zerolog.Logger) *Checker {
	return &Checker{
		log:     log.With().Str("component", "updater").Logger(),
		client:  &http.Client{Timeout: 10 * time.Second},
		apiBase: defaultAPIBase,
	}
}

// Check fetches the newest release tag and compares it to CurrentVersion.
// An empty tag listing means the running build is current.
func (c *Checker) Check(ctx context.Context) (*UpdateInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/repos/%s/tags", c.apiBase, releaseRepo), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "hyserve")
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tags: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch tags: %s", resp.Status)
	}

	var tags []struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}

	info := &UpdateInfo{CurrentVersion: CurrentVersion, LatestVersion: CurrentVersion}
	if len(tags) == 0 {
		return info, nil
	}

	info.LatestVersion = tags[0].Name
	if newerVersion(info.LatestVersion, CurrentVersion) {
		info.UpdateAvailable = true
		info.ReleaseURL = fmt.Sprintf("https://github.com/%s/releases/tag/%s", releaseRepo, info.LatestVersion)
		c.log.Info().Str("latest", info.LatestVersion).Msg("newer release available")
	}
	return info, nil
}

// newerVersion reports whether tag a is strictly newer than tag b. Missing
// segments count as zero, so v1.2 and v1.2.0 compare equal.
func newerVersion(a, b string) bool {
	as := strings.Split(strings.TrimPrefix(a, "v"), ".")
	bs := strings.Split(strings.TrimPrefix(b, "v"), ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var an, bn int
		if i < len(as) {
			an, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bn, _ = strconv.Atoi(bs[i])
		}
		if an != bn {
			return an > bn
		}
	}
	return false
}
