// Package feed extracts video entries from YouTube's unauthenticated RSS
// feeds. The feeds are small and rigidly structured, so entries are pulled
// out of the raw text directly instead of going through an XML decoder.
package feed

import (
	"regexp"
	"strings"
)

// Feeds list 15 entries; only the leading few are ever shown.
const maxEntriesPerFeed = 5

var (
	entryRe     = regexp.MustCompile(`(?s)<entry>(.*?)</entry>`)
	videoIDRe   = regexp.MustCompile(`<yt:videoId>(.*?)</yt:videoId>`)
	titleRe     = regexp.MustCompile(`<title>(.*?)</title>`)
	publishedRe = regexp.MustCompile(`<published>(.*?)</published>`)
)

// Video is one feed entry normalized for the frontend.
type Video struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Channel    string `json:"channel"`
	ChannelURL string `json:"channelUrl"`
	Published  string `json:"published"`
	Thumbnail  string `json:"thumbnail"`
}

// ParseChannelFeed extracts up to five leading entries from a raw feed
// document. Entries without a video id are dropped.
func ParseChannelFeed(xml, channelID, channelName string) []Video {
	entries := entryRe.FindAllStringSubmatch(xml, -1)
	if len(entries) > maxEntriesPerFeed {
		entries = entries[:maxEntriesPerFeed]
	}

	var videos []Video
	for _, entry := range entries {
		block := entry[1]
		videoID := firstMatch(videoIDRe, block)
		if videoID == "" {
			continue
		}
		videos = append(videos, Video{
			ID:         videoID,
			Title:      DecodeEntities(firstMatch(titleRe, block)),
			Channel:    channelName,
			ChannelURL: "https://www.youtube.com/channel/" + channelID,
			Published:  firstMatch(publishedRe, block),
			Thumbnail:  "https://img.youtube.com/vi/" + videoID + "/mqdefault.jpg",
		})
	}
	return videos
}

// DecodeEntities turns the escape sequences YouTube uses in feed titles back
// into literal characters.
func DecodeEntities(s string) string {
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	s = strings.ReplaceAll(s, "&apos;", "'")
	return s
}

func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
