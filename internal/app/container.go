// Package app wires the daemon's long-lived components together.
package app

import (
	"github.com/rs/zerolog"

	"hyserve/internal/auth"
	"hyserve/internal/backup"
	"hyserve/internal/config"
	"hyserve/internal/downloader"
	"hyserve/internal/jvm"
	"hyserve/internal/profile"
	"hyserve/internal/runner"
	"hyserve/internal/storage"
	"hyserve/internal/updater"
	"hyserve/internal/ws"
)

type Container struct {
	Config        *config.Config
	Store         *storage.GormStore
	Profiles      *profile.Manager
	JvmManager    *jvm.Manager
	HubManager    *ws.HubManager
	Auth          *auth.Coordinator
	Supervisor    *runner.Supervisor
	BackupManager *backup.Manager
	Downloader    *downloader.Runner
	Updater       *updater.Checker
}

// Console lines replayed to newly attached websocket clients.
const consoleHistorySize = 500

// New builds the full component graph on top of an opened store.
func New(cfg *config.Config, store *storage.GormStore, log zerolog.Logger) *Container {
	profiles := profile.NewManager(cfg.ServersPath, store)
	hubs := ws.NewHubManager(consoleHistorySize)
	coordinator := auth.NewCoordinator(log, auth.SystemBrowser{}, auth.NopNotifier{})
	supervisor := runner.NewSupervisor(log, coordinator, hubs)
	coordinator.SetSender(supervisor)

	return &Container{
		Config:        cfg,
		Store:         store,
		Profiles:      profiles,
		JvmManager:    jvm.NewManager(cfg.RuntimesPath, log),
		HubManager:    hubs,
		Auth:          coordinator,
		Supervisor:    supervisor,
		BackupManager: backup.NewManager(cfg.BackupsPath, profiles),
		Downloader:    downloader.NewRunner(log, coordinator),
		Updater:       updater.NewChecker(log),
	}
}
