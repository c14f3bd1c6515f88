// Package auth coordinates the cross-process OAuth device-code flow.
//
// Exactly one authentication conversation exists at a time, no matter how
// many server instances (or the asset downloader) are producing output. The
// coordinator consumes classified log lines, opens the verification URL,
// notifies subscribers and, once the server reports success, persists the
// obtained tokens back into the originating process so the next launch does
// not have to re-authenticate.
package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hyserve/internal/domain"
	"hyserve/internal/logparse"
)

const (
	loginCommand       = "/auth login device"
	persistenceCommand = "/auth persistence Encrypted"

	defaultTriggerDelay   = 1500 * time.Millisecond
	defaultDebounceWindow = 5000 * time.Millisecond
	defaultPersistDelay   = 1 * time.Second
	defaultSuccessClear   = 3 * time.Second
	defaultFailureClear   = 5 * time.Second
)

// Callback receives a snapshot of the session after every transition.
type Callback func(domain.AuthSession)

// Coordinator owns the process-wide authentication session. All mutation
// goes through its methods; log-reader goroutines are never blocked by
// subscriber work.
type Coordinator struct {
	log      zerolog.Logger
	browser  BrowserOpener
	notifier Notifier
	sender   CommandSender

	mu      sync.Mutex
	session *domain.AuthSession
	gen     uint64

	lastCode   string
	lastCodeAt time.Time
	opened     map[string]bool

	callbacks map[int]Callback
	nextCB    int

	triggerDelay   time.Duration
	debounceWindow time.Duration
	persistDelay   time.Duration
	successClear   time.Duration
	failureClear   time.Duration
}

// NewCoordinator wires the coordinator to its collaborators. sender may be
// set later with SetSender to break the construction cycle with the
// supervisor.
func NewCoordinator(log zerolog.Logger, browser BrowserOpener, notifier Notifier) *Coordinator {
	if browser == nil {
		browser = SystemBrowser{}
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Coordinator{
		log:            log.With().Str("component", "auth").Logger(),
		browser:        browser,
		notifier:       notifier,
		opened:         make(map[string]bool),
		callbacks:      make(map[int]Callback),
		triggerDelay:   defaultTriggerDelay,
		debounceWindow: defaultDebounceWindow,
		persistDelay:   defaultPersistDelay,
		successClear:   defaultSuccessClear,
		failureClear:   defaultFailureClear,
	}
}

// SetSender attaches the command channel used for the automatic login
// trigger and the persistence command.
func (c *Coordinator) SetSender(s CommandSender) {
	c.mu.Lock()
	c.sender = s
	c.mu.Unlock()
}

// Session returns a snapshot of the current session. The zero session with
// state IDLE is returned when none exists.
func (c *Coordinator) Session() domain.AuthSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return domain.AuthSession{State: domain.AuthIdle}
	}
	return *c.session
}

// RegisterCallback subscribes to session transitions and returns a handle
// for UnregisterCallback.
func (c *Coordinator) RegisterCallback(cb Callback) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextCB++
	c.callbacks[c.nextCB] = cb
	return c.nextCB
}

func (c *Coordinator) UnregisterCallback(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.callbacks, id)
}

// ParseServerLogLine inspects one line of server output for auth-relevant
// markers. It returns true when the line was consumed. Recognition order:
// missing-tokens warning, URL with embedded code, bare code, success phrase
// (only while a session is active), failure phrase.
func (c *Coordinator) ParseServerLogLine(line, profileID string) bool {
	if logparse.IsNoTokensWarning(line) {
		c.handleNoTokens(profileID)
		return true
	}
	if url, code, ok := logparse.DeviceCodeURL(line); ok {
		c.handleCode(code, url, domain.AuthSourceServer, profileID)
		return true
	}
	if code, ok := logparse.BareDeviceCode(line); ok {
		c.handleCode(code, "", domain.AuthSourceServer, profileID)
		return true
	}
	if logparse.IsAuthSuccess(line) {
		return c.handleSuccess(line)
	}
	if logparse.IsAuthFailure(line) {
		return c.handleFailure(line)
	}
	return false
}

// ParseDownloaderLine is the narrower pattern set for the asset downloader
// CLI. The downloader never receives the persistence command.
func (c *Coordinator) ParseDownloaderLine(line string) bool {
	if url, code, ok := logparse.DeviceCodeURL(line); ok {
		c.handleCode(code, url, domain.AuthSourceDownloader, "")
		return true
	}
	if code, ok := logparse.BareDeviceCode(line); ok {
		c.handleCode(code, "", domain.AuthSourceDownloader, "")
		return true
	}
	if logparse.IsAuthSuccess(line) {
		return c.handleSuccess(line)
	}
	if logparse.IsAuthFailure(line) {
		return c.handleFailure(line)
	}
	return false
}

// TriggerServerAuth starts a session for a running server and issues the
// device-login command. It refuses while another conversation is active.
func (c *Coordinator) TriggerServerAuth(profileID string) bool {
	c.mu.Lock()
	if c.session != nil && c.session.Active() {
		c.mu.Unlock()
		return false
	}
	sender := c.sender
	if sender == nil || !sender.IsRunning(profileID) {
		c.mu.Unlock()
		return false
	}
	c.replaceSessionLocked(&domain.AuthSession{
		Source:    domain.AuthSourceServer,
		ProfileID: profileID,
		State:     domain.AuthAuthenticating,
		CreatedAt: time.Now(),
	})
	c.mu.Unlock()

	if !sender.SendCommand(profileID, loginCommand) {
		c.log.Warn().Str("profile", profileID).Msg("failed to send login command")
		c.ResetSession()
		return false
	}
	c.dispatchCurrent()
	return true
}

// ResetSession clears any session unconditionally.
func (c *Coordinator) ResetSession() {
	c.mu.Lock()
	c.session = nil
	c.gen++
	c.mu.Unlock()
	c.dispatch(domain.AuthSession{State: domain.AuthIdle})
}

// handleNoTokens starts a session in AWAITING_CODE and schedules the
// automatic login trigger. The delay lets the server finish booting before
// it receives the command on stdin.
func (c *Coordinator) handleNoTokens(profileID string) {
	c.mu.Lock()
	if c.session != nil && c.session.Active() {
		c.mu.Unlock()
		return
	}
	c.replaceSessionLocked(&domain.AuthSession{
		Source:    domain.AuthSourceServer,
		ProfileID: profileID,
		State:     domain.AuthAwaitingCode,
		CreatedAt: time.Now(),
	})
	gen := c.gen
	c.mu.Unlock()

	c.log.Info().Str("profile", profileID).Msg("server has no tokens, scheduling device auth")
	c.dispatchCurrent()

	time.AfterFunc(c.triggerDelay, func() {
		c.mu.Lock()
		stale := c.gen != gen || c.session == nil ||
			c.session.State != domain.AuthAwaitingCode || c.session.DeviceCode != ""
		sender := c.sender
		c.mu.Unlock()
		if stale || sender == nil || !sender.IsRunning(profileID) {
			return
		}
		if !sender.SendCommand(profileID, loginCommand) {
			c.log.Warn().Str("profile", profileID).Msg("auto-trigger: failed to send login command")
		}
	})
}

// handleCode processes a freshly observed device code: debounce, session
// update, notification and a single browser open per distinct code.
func (c *Coordinator) handleCode(code, url string, source domain.AuthSource, profileID string) {
	now := time.Now()

	c.mu.Lock()
	if code == c.lastCode && now.Sub(c.lastCodeAt) < c.debounceWindow {
		c.lastCodeAt = now
		// The code can show up bare before the line carrying its URL. The
		// duplicate is still dropped, but a URL seen here for the first
		// time is recorded and gets the one browser open for this code.
		var lateURL string
		if url != "" && c.session != nil && c.session.Active() && c.session.DeviceCode == code {
			if c.session.VerificationURL == "" {
				c.session.VerificationURL = url
			}
			if !c.opened[code] {
				c.opened[code] = true
				lateURL = c.session.VerificationURL
			}
		}
		c.mu.Unlock()
		if lateURL != "" {
			c.log.Info().Str("code", code).Msg("verification url arrived after the bare code")
			go func() {
				if err := c.browser.Open(lateURL); err != nil {
					c.log.Warn().Err(err).Msg("could not open browser")
				}
			}()
			c.dispatchCurrent()
		}
		return
	}
	c.lastCode = code
	c.lastCodeAt = now

	if c.session == nil || !c.session.Active() {
		c.replaceSessionLocked(&domain.AuthSession{
			Source:    source,
			ProfileID: profileID,
			CreatedAt: now,
		})
	}
	c.session.DeviceCode = code
	if url != "" {
		c.session.VerificationURL = url
	}
	c.session.State = domain.AuthCodeDisplayed

	openBrowser := c.session.VerificationURL != "" && !c.opened[code]
	if openBrowser {
		c.opened[code] = true
	}
	verificationURL := c.session.VerificationURL
	c.mu.Unlock()

	c.log.Info().Str("code", code).Str("source", string(source)).Msg("device code displayed")
	c.notifier.Notify("Hytale login", fmt.Sprintf("Enter code %s to authenticate", code))
	if openBrowser {
		go func() {
			if err := c.browser.Open(verificationURL); err != nil {
				c.log.Warn().Err(err).Msg("could not open browser")
			}
		}()
	}
	c.dispatchCurrent()
}

// handleSuccess is honored only while a session is active; the phrases are
// too generic to trust otherwise.
func (c *Coordinator) handleSuccess(line string) bool {
	c.mu.Lock()
	if c.session == nil || !c.session.Active() {
		c.mu.Unlock()
		return false
	}
	c.session.State = domain.AuthSuccess
	c.session.Message = line
	gen := c.gen
	source := c.session.Source
	profileID := c.session.ProfileID
	c.mu.Unlock()

	c.log.Info().Str("profile", profileID).Msg("authentication successful")
	c.notifier.Notify("Hytale login", "Authentication successful")
	c.dispatchCurrent()

	if source == domain.AuthSourceServer && profileID != "" {
		time.AfterFunc(c.persistDelay, func() {
			c.mu.Lock()
			sender := c.sender
			stale := c.gen != gen
			c.mu.Unlock()
			if stale || sender == nil || !sender.IsRunning(profileID) {
				return
			}
			if !sender.SendCommand(profileID, persistenceCommand) {
				c.log.Warn().Str("profile", profileID).Msg("failed to send persistence command")
			}
		})
	}
	c.clearAfter(gen, domain.AuthSuccess, c.successClear)
	return true
}

func (c *Coordinator) handleFailure(line string) bool {
	c.mu.Lock()
	if c.session == nil || !c.session.Active() {
		c.mu.Unlock()
		return false
	}
	c.session.State = domain.AuthFailed
	c.session.Message = line
	gen := c.gen
	c.mu.Unlock()

	c.log.Warn().Str("reason", line).Msg("authentication failed")
	c.notifier.Notify("Hytale login", "Authentication failed")
	c.dispatchCurrent()

	c.clearAfter(gen, domain.AuthFailed, c.failureClear)
	return true
}

// clearAfter resets a terminal session back to idle unless it has been
// superseded in the meantime.
func (c *Coordinator) clearAfter(gen uint64, terminal domain.AuthState, d time.Duration) {
	time.AfterFunc(d, func() {
		c.mu.Lock()
		if c.gen != gen || c.session == nil || c.session.State != terminal {
			c.mu.Unlock()
			return
		}
		c.session = nil
		c.gen++
		c.mu.Unlock()
		c.dispatch(domain.AuthSession{State: domain.AuthIdle})
	})
}

// replaceSessionLocked swaps in a new session. Callers hold c.mu.
func (c *Coordinator) replaceSessionLocked(s *domain.AuthSession) {
	c.session = s
	c.gen++
}

func (c *Coordinator) dispatchCurrent() {
	c.dispatch(c.Session())
}

// dispatch delivers a snapshot to every subscriber asynchronously. A
// panicking subscriber is logged and does not affect the others.
func (c *Coordinator) dispatch(snapshot domain.AuthSession) {
	c.mu.Lock()
	cbs := make([]Callback, 0, len(c.callbacks))
	for _, cb := range c.callbacks {
		cbs = append(cbs, cb)
	}
	c.mu.Unlock()

	for _, cb := range cbs {
		cb := cb
		go func() {
			defer func() {
				if r := recover(); r != nil {
					c.log.Error().Interface("panic", r).Msg("auth callback panicked")
				}
			}()
			cb(snapshot)
		}()
	}
}
