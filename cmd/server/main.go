package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hyserve/internal/api"
	"hyserve/internal/app"
	"hyserve/internal/config"
	"hyserve/internal/logging"
	"hyserve/internal/storage"
)

func main() {
	configDir, err := config.Dir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving config directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogPretty)
	log.Info().
		Str("database", cfg.DatabasePath).
		Str("servers", cfg.ServersPath).
		Str("runtimes", cfg.RuntimesPath).
		Str("backups", cfg.BackupsPath).
		Msg("starting hyserve daemon")

	for _, path := range []string{cfg.ServersPath, cfg.BackupsPath, cfg.RuntimesPath} {
		if err := os.MkdirAll(path, 0755); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("could not create directory")
		}
	}

	store, err := storage.NewGormStore(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open database")
	}

	if err := store.ResetRunningStates(); err != nil {
		log.Warn().Err(err).Msg("failed to reset stale server states")
	}

	container := app.New(cfg, store, log)

	// Shut managed servers down before the daemon dies.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		container.Supervisor.Dispose()
		os.Exit(0)
	}()

	apiServer := api.NewAPIServer(container, log)
	listenAddr := fmt.Sprintf(":%d", cfg.Port)
	if err := apiServer.Start(listenAddr); err != nil {
		log.Fatal().Err(err).Msg("API server failed")
	}
}
