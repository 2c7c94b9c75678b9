package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gutenbridge/settings"
)

func (h *handler) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Snapshot())
}

func (h *handler) putSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !settings.Known(key) {
		http.Error(w, "unknown setting", http.StatusNotFound)
		return
	}

	var req struct {
		Value *bool `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h.store.Set(key, *req.Value)
	writeJSON(w, http.StatusOK, h.store.Snapshot())
}
