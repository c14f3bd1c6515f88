package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"hyserve/internal/domain"
	"hyserve/internal/runner"
)

// Major Java version the Hytale server targets.
const javaVersion = 21

// listenersFor persists status transitions so `profiles list` stays truthful
// across daemon restarts. Log lines already reach clients through the
// console hub.
func (api *Server) listenersFor(profileID string) runner.Listeners {
	return runner.Listeners{
		Status: func(st domain.ServerStatus) {
			if err := api.Store.UpdateStatus(profileID, string(st)); err != nil {
				api.log.Warn().Err(err).Str("profile", profileID).Msg("could not persist status")
			}
		},
	}
}

func (api *Server) handleStartServer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	p, err := api.Profiles.Get(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}

	dir, err := api.Profiles.Dir(p)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := runner.ValidateFiles(dir); err != nil {
		http.Error(w, fmt.Sprintf("server files missing: %v, run download first", err), http.StatusConflict)
		return
	}

	javaPath, err := api.JvmManager.EnsureJava(javaVersion)
	if err != nil {
		http.Error(w, fmt.Sprintf("could not resolve java runtime: %v", err), http.StatusInternalServerError)
		return
	}

	cfg := domain.ServerConfig{
		Dir:                dir,
		JavaPath:           javaPath,
		MemoryMin:          p.MemoryMin,
		MemoryMax:          p.MemoryMax,
		Port:               p.Port,
		AuthMode:           p.AuthMode,
		AllowOp:            p.AllowOp,
		AcceptEarlyPlugins: p.AcceptEarlyPlugins,
		JavaArgs:           strings.Fields(p.JavaArgs),
		ServerArgs:         strings.Fields(p.ServerArgs),
	}

	if !api.Supervisor.Start(id, cfg, api.listenersFor(id)) {
		http.Error(w, "start rejected: already running or port in use", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status": "starting"}`))
}

func (api *Server) handleStopServer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if !api.Supervisor.IsRunning(id) {
		http.Error(w, "profile is not running", http.StatusConflict)
		return
	}

	// Stop can block for the full graceful plus forced window; the caller
	// polls status instead of holding the request open.
	go api.Supervisor.Stop(id, api.listenersFor(id))

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status": "stopping"}`))
}

func (api *Server) handleSendCommand(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Command string `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Command == "" {
		http.Error(w, "missing command", http.StatusBadRequest)
		return
	}

	if !api.Supervisor.SendCommand(id, req.Command) {
		http.Error(w, "command not delivered: server not running", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status": "sent"}`))
}

func (api *Server) handleServerStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	state := api.Supervisor.State(id)
	if state == nil {
		state = &domain.InstanceState{
			ProfileID: id,
			Status:    domain.StatusStopped,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}

func (api *Server) handleServerStats(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	stats, err := api.Supervisor.Stats(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (api *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	p, err := api.Profiles.Get(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}
	if api.Downloader.Running() {
		http.Error(w, "a download is already in progress", http.StatusConflict)
		return
	}

	dir, err := api.Profiles.Dir(p)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Progress reaches clients through the profile's console hub. The
	// download outlives this request, so it does not inherit its context.
	hub := api.HubManager.Get(id)
	go func() {
		err := api.Downloader.Download(context.Background(), dir, func(ev domain.ProgressEvent) {
			hub.Broadcast([]byte(ev.Message))
		})
		if err != nil {
			api.log.Error().Err(err).Str("profile", id).Msg("download failed")
			hub.Broadcast([]byte("Download failed: " + err.Error()))
			return
		}
		hub.Broadcast([]byte("Download complete"))
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte(`{"status": "downloading"}`))
}

func (api *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	hub := api.HubManager.Get(id)
	hub.ServeWs(w, r)
}
