package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/sync/errgroup"

	"tristats-edge/internal/config"
	"tristats-edge/internal/youtube"
)

const (
	defaultChannelResults = 3
	maxResultsPerSource   = 4
)

// channelHandles are the fixed sources for the multi-channel mode.
var channelHandles = []struct {
	Handle string
	Label  string
}{
	{"worldtriathlon", "World Triathlon"},
	{"t100triathlon", "T100 Triathlon"},
	{"superleaguetri", "Super League Triathlon"},
}

// YouTubeHandler serves the Data API aggregator. Unlike the RSS aggregator
// this one is fail-fast: the caller asked for specific channels, so a
// partial answer would silently hide some of them.
type YouTubeHandler struct {
	cfg *config.Config
	yt  *youtube.Client
}

func NewYouTubeHandler(cfg *config.Config, client *http.Client) *YouTubeHandler {
	return &YouTubeHandler{
		cfg: cfg,
		yt:  youtube.NewClient(cfg.YouTubeKey, cfg.YouTubeBaseURL, client),
	}
}

func (h *YouTubeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.cfg.YouTubeKey == "" {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "YouTube API key not configured"})
		return
	}

	switch r.URL.Query().Get("action") {
	case "videos":
		h.channelVideos(w, r)
	case "channelVideos":
		h.latestFromChannels(w, r)
	default:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid action parameter"})
	}
}

// channelVideos relays one channel's most recent uploads straight from the
// search endpoint.
func (h *YouTubeHandler) channelVideos(w http.ResponseWriter, r *http.Request) {
	channelID := r.URL.Query().Get("channelId")
	if channelID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Missing channelId parameter"})
		return
	}
	max := parseMaxResults(r.URL.Query().Get("maxResults"), defaultChannelResults, 10)

	body, err := h.yt.RecentVideos(r.Context(), channelID, max)
	if err != nil {
		log.Errorf("youtube search for channel %s: %v", channelID, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "YouTube API error", Details: err.Error()})
		return
	}
	writeRawJSON(w, http.StatusOK, body)
}

// latestFromChannels resolves every fixed handle to its uploads playlist and
// merges the leading entries, reshaped to look like search results.
func (h *YouTubeHandler) latestFromChannels(w http.ResponseWriter, r *http.Request) {
	max := parseMaxResults(r.URL.Query().Get("maxResults"), maxResultsPerSource, maxResultsPerSource)

	perSource := make([][]json.RawMessage, len(channelHandles))
	g, ctx := errgroup.WithContext(r.Context())
	for i, ch := range channelHandles {
		i, ch := i, ch
		g.Go(func() error {
			playlistID, err := h.yt.UploadsPlaylist(ctx, ch.Handle)
			if err != nil {
				return err
			}
			body, err := h.yt.PlaylistItems(ctx, playlistID, max)
			if err != nil {
				return err
			}
			items, err := searchShapedItems(body, ch.Label)
			if err != nil {
				return err
			}
			perSource[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Errorf("youtube channel aggregation: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to fetch YouTube videos", Details: err.Error()})
		return
	}

	items := []json.RawMessage{}
	for _, source := range perSource {
		items = append(items, source...)
	}
	writeJSON(w, http.StatusOK, map[string][]json.RawMessage{"items": items})
}

// searchShapedItems maps playlist entries onto the search-result shape, so
// downstream consumers never branch on which mode produced the data. The
// nested id.videoId is synthesized from the playlist resource and each item
// is tagged with a human-readable source label.
func searchShapedItems(playlistBody []byte, sourceLabel string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	var shapeErr error
	gjson.GetBytes(playlistBody, "items").ForEach(func(_, item gjson.Result) bool {
		videoID := item.Get("snippet.resourceId.videoId").String()
		if videoID == "" {
			return true
		}
		shaped, err := sjson.Set(item.Raw, "id.videoId", videoID)
		if err == nil {
			shaped, err = sjson.Set(shaped, "source", sourceLabel)
		}
		if err != nil {
			shapeErr = err
			return false
		}
		items = append(items, json.RawMessage(shaped))
		return true
	})
	return items, shapeErr
}

// parseMaxResults clamps a caller-supplied cap to [1, max], falling back to
// def when absent or malformed.
func parseMaxResults(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
