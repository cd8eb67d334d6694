package handler

import (
	"net/http"

	"tristats-edge/internal/api"
	"tristats-edge/internal/config"
)

var defaultHandler http.Handler

func init() {
	defaultHandler = api.NewRouter(config.Load())
}

// Handler is the entry point for Vercel's Go runtime; it delegates to the
// same router the standalone server mounts.
func Handler(w http.ResponseWriter, r *http.Request) {
	defaultHandler.ServeHTTP(w, r)
}
