package auth

import "github.com/pkg/browser"

// BrowserOpener opens a verification URL for the user.
type BrowserOpener interface {
	Open(url string) error
}

// Notifier surfaces auth events to the user outside the log stream.
type Notifier interface {
	Notify(title, message string)
}

// CommandSender lets the coordinator talk back into a managed server.
// Implemented by the process supervisor.
type CommandSender interface {
	SendCommand(profileID, command string) bool
	IsRunning(profileID string) bool
}

// SystemBrowser opens URLs with the OS default browser.
type SystemBrowser struct{}

func (SystemBrowser) Open(url string) error {
	return browser.OpenURL(url)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(string, string) {}
