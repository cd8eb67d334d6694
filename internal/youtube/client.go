// Package youtube is a thin client for the three Data API v3 endpoints the
// aggregator touches: search, channels, and playlistItems.
package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(apiKey, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// RecentVideos returns the raw search response for a channel's most recent
// uploads, newest first.
func (c *Client) RecentVideos(ctx context.Context, channelID string, max int) ([]byte, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("channelId", channelID)
	params.Set("order", "date")
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(max))
	return c.get(ctx, "/search", params)
}

// UploadsPlaylist resolves a channel handle to the id of its canonical
// uploads playlist.
func (c *Client) UploadsPlaylist(ctx context.Context, handle string) (string, error) {
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("forHandle", handle)
	body, err := c.get(ctx, "/channels", params)
	if err != nil {
		return "", err
	}
	playlistID := gjson.GetBytes(body, "items.0.contentDetails.relatedPlaylists.uploads").String()
	if playlistID == "" {
		return "", fmt.Errorf("no channel found for handle %q", handle)
	}
	return playlistID, nil
}

// PlaylistItems returns the raw playlistItems response for up to max entries
// of a playlist.
func (c *Client) PlaylistItems(ctx context.Context, playlistID string, max int) ([]byte, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", strconv.Itoa(max))
	return c.get(ctx, "/playlistItems", params)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response for %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("youtube %s: %s", path, msg)
	}
	return body, nil
}
