package domain

import "time"

// AuthState tracks the device-code conversation.
type AuthState string

const (
	AuthIdle           AuthState = "IDLE"
	AuthAwaitingCode   AuthState = "AWAITING_CODE"
	AuthCodeDisplayed  AuthState = "CODE_DISPLAYED"
	AuthAuthenticating AuthState = "AUTHENTICATING"
	AuthSuccess        AuthState = "SUCCESS"
	AuthFailed         AuthState = "FAILED"
)

// AuthSource identifies which subsystem raised the session.
type AuthSource string

const (
	AuthSourceServer     AuthSource = "SERVER"
	AuthSourceDownloader AuthSource = "DOWNLOADER"
)

// AuthSession is a snapshot of the single process-wide authentication
// conversation. The zero value means no session.
type AuthSession struct {
	Source          AuthSource `json:"source"`
	ProfileID       string     `json:"profileId,omitempty"`
	DeviceCode      string     `json:"deviceCode"`
	VerificationURL string     `json:"verificationUrl"`
	State           AuthState  `json:"state"`
	CreatedAt       time.Time  `json:"createdAt"`
	Message         string     `json:"message,omitempty"`
}

// Active reports whether the session is in the middle of a device-code
// conversation, i.e. a new one must not replace it yet.
func (s AuthSession) Active() bool {
	switch s.State {
	case AuthAwaitingCode, AuthCodeDisplayed, AuthAuthenticating:
		return true
	}
	return false
}
