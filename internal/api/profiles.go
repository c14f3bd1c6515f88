package api

import (
	"encoding/json"
	"net/http"

	"hyserve/internal/domain"
	"hyserve/internal/profile"
)

func (api *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := api.Profiles.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profiles)
}

func (api *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
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
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "missing profile name", http.StatusBadRequest)
		return
	}

	p, err := api.Profiles.Create(req.Name, profile.CreateOptions{
		Port:               req.Port,
		MemoryMin:          req.MemoryMin,
		MemoryMax:          req.MemoryMax,
		AuthMode:           domain.AuthMode(req.AuthMode),
		AllowOp:            req.AllowOp,
		AcceptEarlyPlugins: req.AcceptEarlyPlugins,
		JavaArgs:           req.JavaArgs,
		ServerArgs:         req.ServerArgs,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

func (api *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
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

	// The stored status column can lag behind a crashed daemon; the
	// supervisor's view wins for registered instances.
	if st := api.Supervisor.Status(id); api.Supervisor.State(id) != nil {
		p.Status = string(st)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

func (api *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Name       *string `json:"name"`
		MemoryMax  *string `json:"memoryMax"`
		ServerArgs *string `json:"serverArgs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := api.Store.UpdateProfile(id, req.Name, req.MemoryMax, req.ServerArgs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (api *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if api.Supervisor.IsRunning(id) {
		http.Error(w, "profile is running, stop it first", http.StatusConflict)
		return
	}
	api.Supervisor.RemoveServer(id)

	if err := api.Profiles.Delete(id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *Server) handleGetPortRange(w http.ResponseWriter, r *http.Request) {
	start, end, err := api.Store.GetPortRange()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"start": start, "end": end})
}

func (api *Server) handleSetPortRange(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Start int `json:"start"`
		End   int `json:"end"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := api.Store.SetPortRange(req.Start, req.End); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status": "updated"}`))
}
