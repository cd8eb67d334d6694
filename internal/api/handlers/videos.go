package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"tristats-edge/internal/config"
	"tristats-edge/internal/feed"
)

const maxVideos = 8

// feedChannels are the fixed sources for the RSS aggregator.
var feedChannels = []struct {
	ID   string
	Name string
}{
	{"UCbWZDxB8V1VmFmN6t4KNIYQ", "World Triathlon"},
	{"UCHVhEkLpPMIog7k4v9A_plg", "T100 Triathlon"},
}

// VideosHandler merges the channels' RSS feeds into one recency-sorted list.
// Source failures are isolated: one dead feed must not take down the rest.
type VideosHandler struct {
	cfg    *config.Config
	client *http.Client
}

func NewVideosHandler(cfg *config.Config, client *http.Client) *VideosHandler {
	if client == nil {
		client = http.DefaultClient
	}
	return &VideosHandler{cfg: cfg, client: client}
}

func (h *VideosHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// Advisory freshness for downstream HTTP caches; the handler itself
	// holds no state.
	w.Header().Set("Cache-Control", "s-maxage=3600, stale-while-revalidate")

	type result struct {
		videos []feed.Video
		err    error
	}
	results := make([]result, len(feedChannels))

	var wg sync.WaitGroup
	for i, ch := range feedChannels {
		wg.Add(1)
		go func(i int, channelID, channelName string) {
			defer wg.Done()
			videos, err := h.fetchChannelFeed(r.Context(), channelID, channelName)
			results[i] = result{videos: videos, err: err}
		}(i, ch.ID, ch.Name)
	}
	wg.Wait()

	videos := []feed.Video{}
	failed := 0
	for i, res := range results {
		if res.err != nil {
			log.Warnf("feed %s unavailable: %v", feedChannels[i].Name, res.err)
			failed++
			continue
		}
		videos = append(videos, res.videos...)
	}
	if failed == len(feedChannels) {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to fetch YouTube videos"})
		return
	}

	sort.SliceStable(videos, func(i, j int) bool {
		return parsePublished(videos[i].Published).After(parsePublished(videos[j].Published))
	})
	if len(videos) > maxVideos {
		videos = videos[:maxVideos]
	}

	writeJSON(w, http.StatusOK, map[string][]feed.Video{"videos": videos})
}

func (h *VideosHandler) fetchChannelFeed(ctx context.Context, channelID, channelName string) ([]feed.Video, error) {
	feedURL := h.cfg.FeedBaseURL + "/feeds/videos.xml?channel_id=" + channelID

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	return feed.ParseChannelFeed(string(body), channelID, channelName), nil
}

// parsePublished treats unparseable timestamps as the zero time so they sort
// last.
func parsePublished(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
