package config

import (
	"os"
	"sort"
	"strings"
)

// Config holds everything the handlers need from the environment. It is
// built once at startup and passed down; handlers never read env vars
// themselves.
type Config struct {
	Port string

	AnthropicKey string
	TriathlonKey string
	YouTubeKey   string

	// Upstream bases, overridable for local runs and tests.
	AnthropicBaseURL string
	TriathlonBaseURL string
	FeedBaseURL      string
	YouTubeBaseURL   string
}

// Load reads the process environment into a Config.
func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		AnthropicKey:     firstEnv("ANTHROPIC_API_KEY", "CLAUDE_KEY", "CLAUDE_API_KEY"),
		TriathlonKey:     strings.TrimSpace(os.Getenv("TRIATHLON_API_KEY")),
		YouTubeKey:       strings.TrimSpace(os.Getenv("YOUTUBE_API_KEY")),
		AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
		TriathlonBaseURL: getEnv("TRIATHLON_API_BASE_URL", "https://api.triathlon.org/v1"),
		FeedBaseURL:      getEnv("YOUTUBE_FEED_BASE_URL", "https://www.youtube.com"),
		YouTubeBaseURL:   getEnv("YOUTUBE_API_BASE_URL", "https://www.googleapis.com/youtube/v3"),
	}
}

// RelevantEnvNames lists the NAMES of set environment variables that look
// related to the LLM key, for the missing-key diagnostic. Values are never
// included.
func RelevantEnvNames() []string {
	names := []string{}
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.Contains(name, "ANTHROPIC") || strings.Contains(name, "CLAUDE") || strings.Contains(name, "API") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

// firstEnv returns the first non-empty value among the named variables.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}
