package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"tristats-edge/internal/config"
)

const statsTimeout = 30 * time.Second

// StatsHandler relays requests to the World Triathlon API, injecting the
// server-held key. The endpoint path and all remaining query parameters pass
// through verbatim.
type StatsHandler struct {
	cfg     *config.Config
	client  *http.Client
	timeout time.Duration
}

func NewStatsHandler(cfg *config.Config, client *http.Client) *StatsHandler {
	if client == nil {
		client = http.DefaultClient
	}
	return &StatsHandler{cfg: cfg, client: client, timeout: statsTimeout}
}

func (h *StatsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.cfg.TriathlonKey == "" {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "API key not configured"})
		return
	}

	params := r.URL.Query()
	endpoint := params.Get("endpoint")
	if endpoint == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Missing endpoint parameter"})
		return
	}
	params.Del("endpoint")

	target := h.cfg.TriathlonBaseURL + endpoint
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to build upstream request"})
		return
	}
	req.Header.Set("apikey", h.cfg.TriathlonKey)
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		msg := "Failed to fetch from triathlon API"
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "Connection timeout - the API server is not responding. Please try again later."
		}
		log.Errorf("triathlon proxy error for %s: %v", endpoint, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: msg})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Errorf("reading triathlon response for %s: %v", endpoint, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to fetch from triathlon API"})
		return
	}

	// Relay the upstream answer with its own status code.
	writeRawJSON(w, resp.StatusCode, body)
}
