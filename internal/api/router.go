package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"tristats-edge/internal/api/handlers"
	"tristats-edge/internal/api/middleware"
	"tristats-edge/internal/config"
)

// NewRouter wires the four relay endpoints. Every handler is stateless; the
// shared client keeps default transport timeouts (only the triathlon proxy
// adds its own deadline).
func NewRouter(cfg *config.Config) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)

	client := &http.Client{}
	query := handlers.NewQueryHandler(cfg, client)
	stats := handlers.NewStatsHandler(cfg, client)
	videos := handlers.NewVideosHandler(cfg, client)
	yt := handlers.NewYouTubeHandler(cfg, client)

	r.Handle("/api/query", middleware.CORS("POST, OPTIONS", http.HandlerFunc(query.Handle)))
	r.Handle("/api/triathlon", middleware.CORS("GET", http.HandlerFunc(stats.Handle)))
	r.Handle("/api/videos", middleware.CORS("GET", http.HandlerFunc(videos.Handle)))
	r.Handle("/api/youtube", middleware.CORS("GET", http.HandlerFunc(yt.Handle)))

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
