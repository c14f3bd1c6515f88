package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyserve/internal/domain"
)

type fakeBrowser struct {
	mu    sync.Mutex
	opens []string
}

func (b *fakeBrowser) Open(url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opens = append(b.opens, url)
	return nil
}

func (b *fakeBrowser) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.opens)
}

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *fakeNotifier) Notify(_, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, message)
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.msgs)
}

type fakeSender struct {
	mu       sync.Mutex
	running  map[string]bool
	commands []string
}

func newFakeSender(running ...string) *fakeSender {
	s := &fakeSender{running: make(map[string]bool)}
	for _, id := range running {
		s.running[id] = true
	}
	return s
}

func (s *fakeSender) SendCommand(profileID, command string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running[profileID] {
		return false
	}
	s.commands = append(s.commands, profileID+":"+command)
	return true
}

func (s *fakeSender) IsRunning(profileID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running[profileID]
}

func (s *fakeSender) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

func newTestCoordinator(sender CommandSender) (*Coordinator, *fakeBrowser, *fakeNotifier) {
	b := &fakeBrowser{}
	n := &fakeNotifier{}
	c := NewCoordinator(zerolog.Nop(), b, n)
	c.SetSender(sender)
	c.triggerDelay = 20 * time.Millisecond
	c.debounceWindow = 60 * time.Millisecond
	c.persistDelay = 20 * time.Millisecond
	c.successClear = 40 * time.Millisecond
	c.failureClear = 40 * time.Millisecond
	return c, b, n
}

func TestSuccessIgnoredWithoutSession(t *testing.T) {
	c, _, _ := newTestCoordinator(newFakeSender())

	handled := c.ParseServerLogLine("[HytaleServer] Authentication successful", "dev")
	assert.False(t, handled)
	assert.Equal(t, domain.AuthIdle, c.Session().State)
}

func TestNoTokensWarningStartsSessionAndAutoTriggers(t *testing.T) {
	sender := newFakeSender("dev")
	c, _, _ := newTestCoordinator(sender)

	handled := c.ParseServerLogLine("[WARN] [HytaleServer] No server tokens configured", "dev")
	require.True(t, handled)
	assert.Equal(t, domain.AuthAwaitingCode, c.Session().State)

	require.Eventually(t, func() bool {
		cmds := sender.sent()
		return len(cmds) == 1 && cmds[0] == "dev:"+loginCommand
	}, time.Second, 5*time.Millisecond)
}

func TestAutoTriggerSkippedOnceCodeArrives(t *testing.T) {
	sender := newFakeSender("dev")
	c, _, _ := newTestCoordinator(sender)

	c.ParseServerLogLine("[WARN] [HytaleServer] No server tokens configured", "dev")
	c.ParseServerLogLine("Visit https://oauth.hytale.com/activate?user_code=AB12CD", "dev")

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, sender.sent(), "login command must not be sent after a code is known")
}

func TestDeviceCodeDebounce(t *testing.T) {
	c, b, n := newTestCoordinator(newFakeSender("dev"))

	line := "Visit https://oauth.hytale.com/activate?user_code=AB12CD to log in"
	require.True(t, c.ParseServerLogLine(line, "dev"))
	require.True(t, c.ParseServerLogLine(line, "dev"))

	assert.Equal(t, domain.AuthCodeDisplayed, c.Session().State)
	assert.Equal(t, "AB12CD", c.Session().DeviceCode)

	require.Eventually(t, func() bool { return b.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, n.count(), "duplicate code within the window must not notify again")

	time.Sleep(70 * time.Millisecond)
	require.True(t, c.ParseServerLogLine("Visit https://oauth.hytale.com/activate?user_code=ZZ99XX", "dev"))
	require.Eventually(t, func() bool { return b.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestURLArrivingAfterBareCodeStillOpensBrowser(t *testing.T) {
	c, b, _ := newTestCoordinator(newFakeSender("dev"))

	require.True(t, c.ParseServerLogLine("Enter the code AB12CD to continue", "dev"))
	assert.Equal(t, domain.AuthCodeDisplayed, c.Session().State)
	assert.Empty(t, c.Session().VerificationURL)

	// Same code, now with its URL, inside the debounce window.
	url := "https://oauth.hytale.com/activate?user_code=AB12CD"
	require.True(t, c.ParseServerLogLine("Visit "+url, "dev"))

	assert.Equal(t, url, c.Session().VerificationURL)
	require.Eventually(t, func() bool { return b.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, url, b.opens[0])

	// Repeating the URL line changes nothing further.
	require.True(t, c.ParseServerLogLine("Visit "+url, "dev"))
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, b.count())
}

func TestBrowserOpenedOncePerCode(t *testing.T) {
	c, b, _ := newTestCoordinator(newFakeSender("dev"))

	line := "Visit https://oauth.hytale.com/activate?user_code=AB12CD"
	c.ParseServerLogLine(line, "dev")
	time.Sleep(70 * time.Millisecond)
	c.ParseServerLogLine(line, "dev")

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, b.count(), "same code past the debounce window still opens the browser only once")
}

func TestSuccessSendsPersistenceAndClears(t *testing.T) {
	sender := newFakeSender("dev")
	c, _, _ := newTestCoordinator(sender)

	c.ParseServerLogLine("Visit https://oauth.hytale.com/activate?user_code=AB12CD", "dev")
	require.True(t, c.ParseServerLogLine("[HytaleServer] Authentication successful", "dev"))
	assert.Equal(t, domain.AuthSuccess, c.Session().State)

	require.Eventually(t, func() bool {
		for _, cmd := range sender.sent() {
			if cmd == "dev:"+persistenceCommand {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return c.Session().State == domain.AuthIdle
	}, time.Second, 5*time.Millisecond)
}

func TestFailureClearsAfterDelay(t *testing.T) {
	c, _, _ := newTestCoordinator(newFakeSender("dev"))

	c.ParseServerLogLine("Visit https://oauth.hytale.com/activate?user_code=AB12CD", "dev")
	require.True(t, c.ParseServerLogLine("[HytaleServer] Authentication failed: denied", "dev"))
	assert.Equal(t, domain.AuthFailed, c.Session().State)

	require.Eventually(t, func() bool {
		return c.Session().State == domain.AuthIdle
	}, time.Second, 5*time.Millisecond)
}

func TestTriggerServerAuth(t *testing.T) {
	sender := newFakeSender("dev")
	c, _, _ := newTestCoordinator(sender)

	assert.False(t, c.TriggerServerAuth("other"), "not running")

	require.True(t, c.TriggerServerAuth("dev"))
	assert.Equal(t, domain.AuthAuthenticating, c.Session().State)
	assert.Equal(t, []string{"dev:" + loginCommand}, sender.sent())

	assert.False(t, c.TriggerServerAuth("dev"), "rejected while a session is active")
}

func TestResetSession(t *testing.T) {
	c, _, _ := newTestCoordinator(newFakeSender("dev"))

	c.ParseServerLogLine("Visit https://oauth.hytale.com/activate?user_code=AB12CD", "dev")
	require.Equal(t, domain.AuthCodeDisplayed, c.Session().State)

	c.ResetSession()
	assert.Equal(t, domain.AuthIdle, c.Session().State)
}

func TestDownloaderSource(t *testing.T) {
	c, b, _ := newTestCoordinator(newFakeSender())

	require.True(t, c.ParseDownloaderLine("Enter the code QQ88-WW99 at https://oauth.hytale.com/activate"))
	s := c.Session()
	assert.Equal(t, domain.AuthSourceDownloader, s.Source)
	assert.Equal(t, domain.AuthCodeDisplayed, s.State)

	require.True(t, c.ParseDownloaderLine("Authentication successful"))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, b.count(), "bare code carries no URL to open")
}

func TestCallbackFaultIsolation(t *testing.T) {
	c, _, _ := newTestCoordinator(newFakeSender("dev"))

	var mu sync.Mutex
	var got []domain.AuthState
	c.RegisterCallback(func(domain.AuthSession) { panic("subscriber bug") })
	id := c.RegisterCallback(func(s domain.AuthSession) {
		mu.Lock()
		got = append(got, s.State)
		mu.Unlock()
	})
	defer c.UnregisterCallback(id)

	c.ParseServerLogLine("Visit https://oauth.hytale.com/activate?user_code=AB12CD", "dev")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, st := range got {
			if st == domain.AuthCodeDisplayed {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
}
