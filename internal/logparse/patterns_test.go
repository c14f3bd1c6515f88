package logparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBootComplete(t *testing.T) {
	assert.True(t, IsBootComplete("[10:21:33] [Server thread/INFO] [HytaleServer] Hytale Server Booted!"))
	assert.True(t, IsBootComplete("INFO: Server is ready to accept connections"))
	assert.False(t, IsBootComplete("Booting Hytale server..."))
}

func TestIsNoTokensWarning(t *testing.T) {
	line := "[10:21:30] [Server thread/WARN] [HytaleServer] No server tokens configured, starting device auth"
	assert.True(t, IsNoTokensWarning(line))
	assert.False(t, IsNoTokensWarning("[HytaleServer] tokens loaded from disk"))
}

func TestPlayerJoined(t *testing.T) {
	cases := map[string]string{
		"[INFO] Player 'Kweebec42' joined":          "Kweebec42",
		"[INFO] Player Thorn has joined":            "Thorn",
		"Kweebec42 joined the world":                "Kweebec42",
		"[Server] Adding player Ferocious_Outlander": "Ferocious_Outlander",
	}
	for line, want := range cases {
		name, ok := PlayerJoined(line)
		require.True(t, ok, "line %q", line)
		assert.Equal(t, want, name)
	}

	_, ok := PlayerJoined("[INFO] World generation finished")
	assert.False(t, ok)
}

func TestPlayerLeft(t *testing.T) {
	name, ok := PlayerLeft("[INFO] Player 'Kweebec42' left")
	require.True(t, ok)
	assert.Equal(t, "Kweebec42", name)

	name, ok = PlayerLeft("Thorn left the game")
	require.True(t, ok)
	assert.Equal(t, "Thorn", name)

	_, ok = PlayerLeft("Player Kweebec42 joined")
	assert.False(t, ok)
}

func TestDeviceCodeURL(t *testing.T) {
	url, code, ok := DeviceCodeURL("Visit https://oauth.hytale.com/activate?foo=1&user_code=AB12CD to log in")
	require.True(t, ok)
	assert.Equal(t, "https://oauth.hytale.com/activate?foo=1&user_code=AB12CD", url)
	assert.Equal(t, "AB12CD", code)

	_, _, ok = DeviceCodeURL("Visit https://oauth.hytale.com/activate?user_code=AB1")
	assert.False(t, ok, "short codes must be rejected")

	_, _, ok = DeviceCodeURL("Visit https://oauth.hytale.com/activate to log in")
	assert.False(t, ok)
}

func TestBareDeviceCode(t *testing.T) {
	code, ok := BareDeviceCode("Your user code: XK99-PLQ2")
	require.True(t, ok)
	assert.Equal(t, "XK99-PLQ2", code)

	code, ok = BareDeviceCode("Enter the code AB12CD at the verification page")
	require.True(t, ok)
	assert.Equal(t, "AB12CD", code)

	code, ok = BareDeviceCode(`Device code "QWE-RTY-123"`)
	require.True(t, ok)
	assert.Equal(t, "QWE-RTY-123", code)

	_, ok = BareDeviceCode("Enter the code AB1")
	assert.False(t, ok, "codes below the minimum length must be rejected")

	_, ok = BareDeviceCode("no codes here")
	assert.False(t, ok)
}

func TestAuthPhrases(t *testing.T) {
	assert.True(t, IsAuthSuccess("[HytaleServer] Authentication successful"))
	assert.True(t, IsAuthSuccess("Successfully authenticated as dev@example.com"))
	assert.False(t, IsAuthSuccess("Authenticating..."))

	assert.True(t, IsAuthFailure("[HytaleServer] Authentication failed: expired token"))
	assert.True(t, IsAuthFailure("Device code expired"))
	assert.False(t, IsAuthFailure("Authentication successful"))
}
