package downloader

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"hyserve/internal/auth"
	"hyserve/internal/domain"
)

type noopBrowser struct{}

func (noopBrowser) Open(string) error { return nil }

func TestRouteLineForwardsAuthAndProgress(t *testing.T) {
	coordinator := auth.NewCoordinator(zerolog.Nop(), noopBrowser{}, nil)
	r := NewRunner(zerolog.Nop(), coordinator)

	var events []domain.ProgressEvent
	onProgress := func(ev domain.ProgressEvent) { events = append(events, ev) }

	r.routeLine("Visit https://oauth.hytale.com/activate?user_code=XY98ZW to sign in", onProgress)

	session := coordinator.Session()
	assert.Equal(t, domain.AuthCodeDisplayed, session.State)
	assert.Equal(t, domain.AuthSourceDownloader, session.Source)
	assert.Equal(t, "XY98ZW", session.DeviceCode)

	r.routeLine("Downloading Assets.zip... 42%", onProgress)
	r.routeLine("no percentage here", onProgress)
	r.routeLine("Downloading Assets.zip... 42.5%", onProgress)

	assert.Len(t, events, 2)
	assert.Equal(t, 42.0, events[0].Progress)
	assert.Equal(t, 42.5, events[1].Progress)
}

func TestRouteLineIgnoresImpossiblePercentages(t *testing.T) {
	r := NewRunner(zerolog.Nop(), nil)

	var events []domain.ProgressEvent
	r.routeLine("retry 503% backoff", func(ev domain.ProgressEvent) { events = append(events, ev) })
	assert.Empty(t, events)
}
