package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/zmbq/butbul-halacha-ingest/pkg/fn"
)

// uploadsFeedURL is the Atom feed of a channel's most recent uploads. It
// carries roughly the last fifteen videos and costs no API quota, so it is
// the cheap path for incremental runs.
const uploadsFeedURL = "https://www.youtube.com/feeds/videos.xml?channel_id="

// FeedPoller reads a channel's uploads feed.
type FeedPoller struct {
	channelID string
	parser    *gofeed.Parser
}

// NewFeedPoller creates a poller for the given channel.
func NewFeedPoller(channelID string) *FeedPoller {
	if channelID == "" {
		channelID = DefaultChannelID
	}
	return &FeedPoller{
		channelID: channelID,
		parser:    gofeed.NewParser(),
	}
}

// RecentUploads fetches the channel's uploads feed and returns its videos,
// newest first as the feed orders them.
func (p *FeedPoller) RecentUploads(ctx context.Context) fn.Result[[]Video] {
	feed, err := p.parser.ParseURLWithContext(uploadsFeedURL+p.channelID, ctx)
	if err != nil {
		return fn.Err[[]Video](err)
	}

	var videos []Video
	for _, item := range feed.Items {
		id := feedVideoID(item)
		if id == "" {
			continue
		}
		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}
		videos = append(videos, Video{
			VideoID:     id,
			URL:         "https://www.youtube.com/watch?v=" + id,
			Title:       item.Title,
			Description: feedDescription(item),
			PublishedAt: published,
		})
	}
	return fn.Ok(videos)
}

// feedVideoID extracts the video ID from a feed entry: the yt:videoId
// extension when present, else the "yt:video:ID" GUID.
func feedVideoID(item *gofeed.Item) string {
	if ext, ok := item.Extensions["yt"]; ok {
		if ids, ok := ext["videoId"]; ok && len(ids) > 0 {
			return ids[0].Value
		}
	}
	if rest, ok := strings.CutPrefix(item.GUID, "yt:video:"); ok {
		return rest
	}
	return ""
}

// feedDescription pulls the media:group description, which holds the full
// video description the plain item description lacks.
func feedDescription(item *gofeed.Item) string {
	media, ok := item.Extensions["media"]
	if !ok {
		return item.Description
	}
	for _, group := range media["group"] {
		for _, desc := range group.Children["description"] {
			if desc.Value != "" {
				return desc.Value
			}
		}
	}
	return item.Description
}
