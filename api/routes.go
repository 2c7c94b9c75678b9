package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"gutenbridge/editor"
	"gutenbridge/settings"
)

func RegisterRoutes(manager *editor.Manager, store *settings.Store, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	h := &handler{manager: manager, store: store, logger: logger}

	// Editor sessions
	r.Get("/api/editors", h.listEditors)
	r.Post("/api/editors", h.createEditor)
	r.Get("/api/editors/{id}", h.getEditor)
	r.Delete("/api/editors/{id}", h.closeEditor)

	// Navigation bar taps
	r.Post("/api/editors/{id}/publish", h.trigger((*editor.Coordinator).PublishPressed))
	r.Post("/api/editors/{id}/close", h.trigger((*editor.Coordinator).ClosePressed))
	r.Post("/api/editors/{id}/more", h.trigger((*editor.Coordinator).MorePressed))
	r.Delete("/api/editors/{id}/pending", h.trigger((*editor.Coordinator).CancelPending))
	r.Post("/api/editors/{id}/media", h.selectMedia)

	// Embedded editor surface
	r.Get("/api/editors/{id}/ws", h.handleWS)

	// Settings
	r.Get("/api/settings", h.getSettings)
	r.Put("/api/settings/{key}", h.putSetting)

	return r
}

type handler struct {
	manager *editor.Manager
	store   *settings.Store
	logger  *zap.Logger
}

// requestLogger logs one line per request once the handler returns.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("http request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
