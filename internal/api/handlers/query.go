package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"tristats-edge/internal/config"
	"tristats-edge/internal/llm"
)

// QueryHandler translates free-text questions into action descriptors the
// frontend can execute, by way of a single-turn LLM completion.
type QueryHandler struct {
	cfg *config.Config
	llm *llm.Client
}

func NewQueryHandler(cfg *config.Config, client *http.Client) *QueryHandler {
	return &QueryHandler{
		cfg: cfg,
		llm: llm.NewClient(cfg.AnthropicKey, cfg.AnthropicBaseURL, client),
	}
}

func (h *QueryHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
		return
	}

	if h.cfg.AnthropicKey == "" {
		// List candidate env var NAMES to help the operator; values stay out.
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "Anthropic API key not configured",
			Details: "Set ANTHROPIC_API_KEY (or CLAUDE_KEY) in the service environment",
			Debug:   map[string]any{"relevantEnvVars": config.RelevantEnvNames()},
		})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Missing query parameter"})
		return
	}
	query, err := parseQueryRequest(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Missing query parameter"})
		return
	}

	prompt := llm.SystemPrompt(llm.DomainKnowledge(), time.Now())
	text, err := h.llm.Complete(r.Context(), prompt, query)
	if err != nil {
		var upstream *llm.UpstreamError
		switch {
		case errors.As(err, &upstream):
			log.Errorf("Claude API error: %d %s", upstream.StatusCode, upstream.Message)
			writeJSON(w, upstream.StatusCode, errorBody{
				Error:   "Claude API error",
				Details: upstream.Message,
				Status:  upstream.StatusCode,
			})
		case errors.Is(err, llm.ErrEmptyReply):
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "No response from Claude"})
		default:
			log.Errorf("Claude API request failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorBody{
				Error:   "Failed to connect to Claude API",
				Details: err.Error(),
			})
		}
		return
	}

	// The model is instructed to answer with a JSON action descriptor; relay
	// it untouched when it did. When it answered in prose instead, wrap the
	// text so the caller still gets a usable descriptor.
	if json.Valid([]byte(text)) {
		writeRawJSON(w, http.StatusOK, []byte(text))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"action":      "answer",
		"answer":      text,
		"explanation": "Here's what I found:",
	})
}

var errMissingQuery = errors.New("missing query parameter")

// parseQueryRequest accepts either a JSON object with a query field, or a
// JSON string whose contents are themselves such an object (some clients
// double-encode the body). Anything else is a caller error.
func parseQueryRequest(body []byte) (string, error) {
	payload := strings.TrimSpace(string(body))
	if payload == "" {
		return "", errMissingQuery
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		var inner string
		if err := json.Unmarshal([]byte(payload), &inner); err != nil {
			return "", errMissingQuery
		}
		if err := json.Unmarshal([]byte(inner), &req); err != nil {
			return "", errMissingQuery
		}
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return "", errMissingQuery
	}
	return query, nil
}
