// Package api exposes the daemon's HTTP and WebSocket surface.
package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"hyserve/internal/app"
	"hyserve/internal/auth"
	"hyserve/internal/backup"
	"hyserve/internal/downloader"
	"hyserve/internal/jvm"
	"hyserve/internal/profile"
	"hyserve/internal/runner"
	"hyserve/internal/storage"
	"hyserve/internal/updater"
	"hyserve/internal/ws"
)

type Server struct {
	Profiles      *profile.Manager
	Supervisor    *runner.Supervisor
	Store         *storage.GormStore
	HubManager    *ws.HubManager
	Auth          *auth.Coordinator
	JvmManager    *jvm.Manager
	BackupManager *backup.Manager
	Downloader    *downloader.Runner
	Updater       *updater.Checker

	log zerolog.Logger
}

func NewAPIServer(container *app.Container, log zerolog.Logger) *Server {
	return &Server{
		Profiles:      container.Profiles,
		Supervisor:    container.Supervisor,
		Store:         container.Store,
		HubManager:    container.HubManager,
		Auth:          container.Auth,
		JvmManager:    container.JvmManager,
		BackupManager: container.BackupManager,
		Downloader:    container.Downloader,
		Updater:       container.Updater,
		log:           log.With().Str("component", "api").Logger(),
	}
}

func (api *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /profiles", api.handleListProfiles)
	mux.HandleFunc("POST /profiles", api.handleCreateProfile)
	mux.HandleFunc("GET /profiles/{id}", api.handleGetProfile)
	mux.HandleFunc("PUT /profiles/{id}", api.handleUpdateProfile)
	mux.HandleFunc("DELETE /profiles/{id}", api.handleDeleteProfile)

	mux.HandleFunc("POST /profiles/{id}/start", api.handleStartServer)
	mux.HandleFunc("POST /profiles/{id}/stop", api.handleStopServer)
	mux.HandleFunc("POST /profiles/{id}/command", api.handleSendCommand)
	mux.HandleFunc("GET /profiles/{id}/status", api.handleServerStatus)
	mux.HandleFunc("GET /profiles/{id}/stats", api.handleServerStats)
	mux.HandleFunc("POST /profiles/{id}/download", api.handleDownload)

	mux.HandleFunc("POST /profiles/{id}/backup", api.handleBackupProfile)
	mux.HandleFunc("GET /profiles/{id}/backups", api.handleListBackupsByProfile)
	mux.HandleFunc("GET /backups", api.handleListAllBackups)
	mux.HandleFunc("POST /backups/{name}/restore", api.handleRestoreBackup)
	mux.HandleFunc("DELETE /backups/{name}", api.handleDeleteBackup)

	mux.HandleFunc("GET /auth/session", api.handleAuthSession)
	mux.HandleFunc("POST /auth/reset", api.handleAuthReset)
	mux.HandleFunc("POST /auth/login/{id}", api.handleAuthLogin)

	mux.HandleFunc("GET /updates", api.handleCheckUpdates)

	mux.HandleFunc("GET /settings/port-range", api.handleGetPortRange)
	mux.HandleFunc("PUT /settings/port-range", api.handleSetPortRange)

	mux.HandleFunc("GET /ws/profiles/{id}/console", api.handleConsole)

	return api.corsMiddleware(mux)
}

func (api *Server) Start(listenAddr string) error {
	api.log.Info().Str("addr", listenAddr).Msg("API listening")
	return http.ListenAndServe(listenAddr, api.Handler())
}

func (api *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
