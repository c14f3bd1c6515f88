// Package logparse recognizes the console markers emitted by the Hytale
// server and the asset downloader. All matching is stateless: callers feed
// one line at a time and interpret the result.
//
// The phrase sets are heuristic by nature. A wording change on the server
// side breaks them silently, so they are kept exactly as observed and tried
// in a fixed order with the first match winning.
package logparse

import (
	"regexp"
	"strings"
)

// minCodeLength guards the bare-code patterns, which are permissive enough
// to catch short unrelated tokens otherwise.
const minCodeLength = 6

var bootMarkers = []string{
	"Hytale Server Booted",
	"Server is ready to accept connections",
}

const noTokensWarning = "No server tokens configured"

var joinPatterns = []*regexp.Regexp{
	regexp.MustCompile(`Player '?([A-Za-z0-9_]+)'? (?:has )?joined`),
	regexp.MustCompile(`([A-Za-z0-9_]+) joined the (?:game|world)`),
	regexp.MustCompile(`Adding player ([A-Za-z0-9_]+)`),
}

var leavePatterns = []*regexp.Regexp{
	regexp.MustCompile(`Player '?([A-Za-z0-9_]+)'? (?:has )?(?:left|disconnected)`),
	regexp.MustCompile(`([A-Za-z0-9_]+) left the (?:game|world)`),
	regexp.MustCompile(`Removing player ([A-Za-z0-9_]+)`),
}

var urlCodePattern = regexp.MustCompile(`(https?://\S+[?&]user_code=([A-Za-z0-9-]+))`)

var bareCodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)user code:?\s+([A-Z0-9-]+)`),
	regexp.MustCompile(`(?i)enter (?:the )?code:?\s+([A-Z0-9-]+)`),
	regexp.MustCompile(`(?i)device code:?\s+"?([A-Z0-9-]+)"?`),
}

var successPhrases = []string{
	"Authentication successful",
	"Successfully authenticated",
	"Auth success",
}

var failurePhrases = []string{
	"Authentication failed",
	"Failed to authenticate",
	"Device code expired",
}

// IsBootComplete reports whether the line is one of the boot-ready markers.
func IsBootComplete(line string) bool {
	for _, m := range bootMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// IsNoTokensWarning reports whether the line is the missing-tokens warning
// that precedes a device-code flow.
func IsNoTokensWarning(line string) bool {
	return strings.Contains(line, noTokensWarning)
}

// PlayerJoined returns the joining player's name, if the line is a join line.
func PlayerJoined(line string) (string, bool) {
	return firstSubmatch(joinPatterns, line)
}

// PlayerLeft returns the leaving player's name, if the line is a leave line.
func PlayerLeft(line string) (string, bool) {
	return firstSubmatch(leavePatterns, line)
}

// DeviceCodeURL extracts a verification URL with an embedded user_code
// parameter. It returns the full URL and the code.
func DeviceCodeURL(line string) (url, code string, ok bool) {
	m := urlCodePattern.FindStringSubmatch(line)
	if m == nil || len(m[2]) < minCodeLength {
		return "", "", false
	}
	return m[1], m[2], true
}

// BareDeviceCode extracts a device code printed without a URL. Codes shorter
// than minCodeLength are rejected.
func BareDeviceCode(line string) (string, bool) {
	code, ok := firstSubmatch(bareCodePatterns, line)
	if !ok || len(code) < minCodeLength {
		return "", false
	}
	return code, true
}

// IsAuthSuccess reports whether the line carries an authentication-success
// phrase. Callers must additionally check that a session is active; the
// phrases are too generic to trust during normal boot output.
func IsAuthSuccess(line string) bool {
	return containsAny(line, successPhrases)
}

// IsAuthFailure reports whether the line carries an authentication-failure
// phrase.
func IsAuthFailure(line string) bool {
	return containsAny(line, failurePhrases)
}

func firstSubmatch(patterns []*regexp.Regexp, line string) (string, bool) {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func containsAny(line string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(line, p) {
			return true
		}
	}
	return false
}
