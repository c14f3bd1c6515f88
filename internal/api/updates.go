package api

import (
	"encoding/json"
	"net/http"
)

func (api *Server) handleCheckUpdates(w http.ResponseWriter, r *http.Request) {
	info, err := api.Updater.Check(r.Context())
	if err != nil {
		api.log.Warn().Err(err).Msg("update check failed")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}
