package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompleteExtractsFirstTextBlock(t *testing.T) {
	var gotPath, gotKey, gotVersion string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"tool_use","id":"x"},{"type":"text","text":"hello"},{"type":"text","text":"ignored"}]}`))
	}))
	defer upstream.Close()

	c := NewClient("test-key", upstream.URL, upstream.Client())
	text, err := c.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "hello" {
		t.Errorf("Complete() = %q, want %q", text, "hello")
	}
	if gotPath != "/v1/messages" {
		t.Errorf("path = %q, want /v1/messages", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("x-api-key = %q", gotKey)
	}
	if gotVersion != "2023-06-01" {
		t.Errorf("anthropic-version = %q", gotVersion)
	}
}

func TestCompleteEmptyReply(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[{"type":"tool_use","id":"x"}]}`))
	}))
	defer upstream.Close()

	c := NewClient("test-key", upstream.URL, upstream.Client())
	_, err := c.Complete(context.Background(), "system", "user")
	if !errors.Is(err, ErrEmptyReply) {
		t.Errorf("Complete() error = %v, want ErrEmptyReply", err)
	}
}

func TestCompleteUpstreamError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantCode int
	}{
		{
			name:     "structured error message",
			status:   http.StatusBadRequest,
			body:     `{"error":{"type":"invalid_request_error","message":"max_tokens required"}}`,
			wantMsg:  "max_tokens required",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "plain text body",
			status:   http.StatusBadGateway,
			body:     "upstream exploded",
			wantMsg:  "upstream exploded",
			wantCode: http.StatusBadGateway,
		},
		{
			name:     "empty body",
			status:   http.StatusServiceUnavailable,
			body:     "",
			wantMsg:  "HTTP 503",
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer upstream.Close()

			c := NewClient("test-key", upstream.URL, upstream.Client())
			_, err := c.Complete(context.Background(), "system", "user")

			var upstreamErr *UpstreamError
			if !errors.As(err, &upstreamErr) {
				t.Fatalf("Complete() error = %v, want UpstreamError", err)
			}
			if upstreamErr.StatusCode != tt.wantCode {
				t.Errorf("StatusCode = %d, want %d", upstreamErr.StatusCode, tt.wantCode)
			}
			if upstreamErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", upstreamErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestCompleteNetworkError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // connection refused from here on

	c := NewClient("test-key", upstream.URL, nil)
	_, err := c.Complete(context.Background(), "system", "user")
	if err == nil {
		t.Fatal("Complete() expected error for closed upstream")
	}
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		t.Errorf("network failure should not be an UpstreamError, got %v", err)
	}
}
