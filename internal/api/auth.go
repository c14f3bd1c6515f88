package api

import (
	"encoding/json"
	"net/http"
)

func (api *Server) handleAuthSession(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(api.Auth.Session())
}

func (api *Server) handleAuthReset(w http.ResponseWriter, r *http.Request) {
	api.Auth.ResetSession()
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status": "reset"}`))
}

func (api *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if !api.Auth.TriggerServerAuth(id) {
		http.Error(w, "login not triggered: server not running or another session is active", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status": "triggered"}`))
}
