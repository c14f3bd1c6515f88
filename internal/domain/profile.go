package domain

import "time"

// ServerStatus is the lifecycle state of a managed server process.
type ServerStatus string

const (
	StatusStopped  ServerStatus = "STOPPED"
	StatusStarting ServerStatus = "STARTING"
	StatusRunning  ServerStatus = "RUNNING"
	StatusStopping ServerStatus = "STOPPING"
	StatusError    ServerStatus = "ERROR"
)

// AuthMode selects how the Hytale server authenticates players.
type AuthMode string

const (
	AuthModeAuthenticated AuthMode = "authenticated"
	AuthModeOffline       AuthMode = "offline"
)

// Profile is a named, user-configured server launch configuration.
type Profile struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	FolderName         string    `json:"folderName"`
	Port               int       `json:"port"`
	MemoryMin          string    `json:"memoryMin"`
	MemoryMax          string    `json:"memoryMax"`
	AuthMode           AuthMode  `json:"authMode"`
	AllowOp            bool      `json:"allowOp"`
	AcceptEarlyPlugins bool      `json:"acceptEarlyPlugins"`
	JavaArgs           string    `json:"javaArgs"`
	ServerArgs         string    `json:"serverArgs"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
}

// ServerConfig is the fully resolved, immutable input to a start call.
type ServerConfig struct {
	Dir                string
	JavaPath           string
	MemoryMin          string
	MemoryMax          string
	Port               int
	AuthMode           AuthMode
	AllowOp            bool
	AcceptEarlyPlugins bool
	JavaArgs           []string
	ServerArgs         []string
}

// InstanceState is a read-only snapshot of a running instance.
type InstanceState struct {
	ProfileID   string       `json:"profileId"`
	Status      ServerStatus `json:"status"`
	PlayerCount int          `json:"playerCount"`
	Players     []string     `json:"players"`
	Uptime      int64        `json:"uptime"`
}

// ServerStats holds process-level resource usage for a running server.
type ServerStats struct {
	CPU float64 `json:"cpu"`
	RSS uint64  `json:"rss"`
	PID int32   `json:"pid"`
}

// ProgressEvent reports progress of a long-running task to a client.
type ProgressEvent struct {
	ProfileID string  `json:"profileId"`
	Message   string  `json:"message"`
	Progress  float64 `json:"progress"`
}
