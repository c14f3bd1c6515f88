package sdk

import "time"

type Profile struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	FolderName         string    `json:"folderName"`
	Port               int       `json:"port"`
	MemoryMin          string    `json:"memoryMin"`
	MemoryMax          string    `json:"memoryMax"`
	AuthMode           string    `json:"authMode"`
	AllowOp            bool      `json:"allowOp"`
	AcceptEarlyPlugins bool      `json:"acceptEarlyPlugins"`
	JavaArgs           string    `json:"javaArgs"`
	ServerArgs         string    `json:"serverArgs"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
}

type CreateProfileRequest struct {
	Name               string `json:"name"`
	Port               int    `json:"port,omitempty"`
	MemoryMin          string `json:"memoryMin,omitempty"`
	MemoryMax          string `json:"memoryMax,omitempty"`
	AuthMode           string `json:"authMode,omitempty"`
	AllowOp            bool   `json:"allowOp,omitempty"`
	AcceptEarlyPlugins bool   `json:"acceptEarlyPlugins,omitempty"`
	JavaArgs           string `json:"javaArgs,omitempty"`
	ServerArgs         string `json:"serverArgs,omitempty"`
}

type InstanceState struct {
	ProfileID   string   `json:"profileId"`
	Status      string   `json:"status"`
	PlayerCount int      `json:"playerCount"`
	Players     []string `json:"players"`
	Uptime      int64    `json:"uptime"`
}

type ServerStats struct {
	CPU float64 `json:"cpu"`
	RSS uint64  `json:"rss"`
	PID int32   `json:"pid"`
}

type AuthSession struct {
	Source          string    `json:"source"`
	ProfileID       string    `json:"profileId,omitempty"`
	DeviceCode      string    `json:"deviceCode"`
	VerificationURL string    `json:"verificationUrl"`
	State           string    `json:"state"`
	CreatedAt       time.Time `json:"createdAt"`
	Message         string    `json:"message,omitempty"`
}

type BackupInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type RestoreBackupRequest struct {
	ProfileID      string `json:"profileId,omitempty"`
	NewProfileName string `json:"newProfileName,omitempty"`
}

type PortRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}
