package api

import (
	"encoding/json"
	"net/http"
)

func (api *Server) handleBackupProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Name string `json:"name,omitempty"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	backupPath, err := api.BackupManager.CreateBackup(r.Context(), id, req.Name, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "backup created",
		"path":    backupPath,
	})
}

func (api *Server) handleListBackupsByProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	backups, err := api.BackupManager.ListBackups(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(backups)
}

func (api *Server) handleListAllBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := api.BackupManager.ListAllBackups()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(backups)
}

func (api *Server) handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req struct {
		ProfileID      string `json:"profileId,omitempty"`
		NewProfileName string `json:"newProfileName,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if req.ProfileID != "" && api.Supervisor.IsRunning(req.ProfileID) {
		http.Error(w, "profile is running, stop it first", http.StatusConflict)
		return
	}

	if err := api.BackupManager.RestoreBackup(name, req.ProfileID, req.NewProfileName); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status": "restored"}`))
}

func (api *Server) handleDeleteBackup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := api.BackupManager.DeleteBackup(name); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
