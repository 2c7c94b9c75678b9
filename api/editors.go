package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"gutenbridge/editor"
	"gutenbridge/post"
)

func (h *handler) listEditors(w http.ResponseWriter, r *http.Request) {
	sessions := h.manager.List()
	views := make([]editor.View, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, s.View())
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *handler) createEditor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string      `json:"title"`
		Content string      `json:"content"`
		Status  post.Status `json:"status"`
		Blog    post.Blog   `json:"blog"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		http.Error(w, "invalid post status", http.StatusBadRequest)
		return
	}

	s := h.manager.Create(post.New(req.Title, req.Content, req.Status, req.Blog))
	writeJSON(w, http.StatusCreated, s.View())
}

func (h *handler) getEditor(w http.ResponseWriter, r *http.Request) {
	s, ok := h.manager.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "editor not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

func (h *handler) closeEditor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.manager.Close(id); err != nil {
		if errors.Is(err, editor.ErrNotFound) {
			http.Error(w, "editor not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to close editor", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// trigger queues fn on the session's coordinator. The outcome arrives once
// the surface answers, so the response is 202.
func (h *handler) trigger(fn func(*editor.Coordinator)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := h.manager.Get(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "editor not found", http.StatusNotFound)
			return
		}
		fn(s.Coordinator())
		w.WriteHeader(http.StatusAccepted)
	}
}

func (h *handler) selectMedia(w http.ResponseWriter, r *http.Request) {
	s, ok := h.manager.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "editor not found", http.StatusNotFound)
		return
	}

	var req struct {
		Media []editor.Media `json:"media"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.SelectMedia(req.Media); err != nil {
		if errors.Is(err, editor.ErrNoMediaRequest) {
			http.Error(w, "no media request pending", http.StatusConflict)
			return
		}
		h.logger.Warn("media selection not delivered", zap.String("session", s.ID), zap.Error(err))
		http.Error(w, "failed to deliver media", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
