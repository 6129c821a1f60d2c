package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/zmbq/butbul-halacha-ingest/pkg/fn"
)

// DefaultChannelID is the channel the daily lectures are published on.
const DefaultChannelID = "UCyyFAV4gSAyNPR1cvDdRLsg"

// DefaultPlaylistFilter selects the daily-halacha playlists by title.
const DefaultPlaylistFilter = "הלכה יומית"

// ErrQuotaExhausted is returned when the YouTube API quota is exceeded.
var ErrQuotaExhausted = fmt.Errorf("youtube API quota exhausted")

// isoDuration matches the ISO 8601 durations the videos endpoint returns.
var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// YouTubeClient talks to the YouTube Data API v3 for one channel.
type YouTubeClient struct {
	apiKey      string
	channelID   string
	rateLimiter *rate.Limiter
	httpClient  *http.Client
}

// NewYouTubeClient creates a client for the given API key and channel.
func NewYouTubeClient(apiKey, channelID string) *YouTubeClient {
	if channelID == "" {
		channelID = DefaultChannelID
	}
	return &YouTubeClient{
		apiKey:      apiKey,
		channelID:   channelID,
		rateLimiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// playlistsResponse is the YouTube Data API v3 playlists response.
type playlistsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"snippet"`
		ContentDetails struct {
			ItemCount int `json:"itemCount"`
		} `json:"contentDetails"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

// playlistItemsResponse is the YouTube Data API v3 playlistItems response.
type playlistItemsResponse struct {
	Items []struct {
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
		ContentDetails struct {
			VideoID          string `json:"videoId"`
			VideoPublishedAt string `json:"videoPublishedAt"`
		} `json:"contentDetails"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

// videosResponse is the YouTube Data API v3 videos response (contentDetails).
type videosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

func (c *YouTubeClient) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("YouTube API key required")
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://www.googleapis.com/youtube/v3/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == 403 {
		return nil, ErrQuotaExhausted
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("%s: status %d", endpoint, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Playlists lists the channel's playlists whose title contains filter.
// An empty filter returns every playlist.
func (c *YouTubeClient) Playlists(ctx context.Context, filter string) fn.Result[[]Playlist] {
	var playlists []Playlist
	pageToken := ""

	for {
		params := url.Values{
			"part":       {"snippet,contentDetails"},
			"channelId":  {c.channelID},
			"maxResults": {"50"},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		body, err := c.get(ctx, "playlists", params)
		if err != nil {
			return fn.Err[[]Playlist](err)
		}

		var pr playlistsResponse
		if err := json.Unmarshal(body, &pr); err != nil {
			return fn.Err[[]Playlist](err)
		}

		for _, item := range pr.Items {
			if filter != "" && !strings.Contains(item.Snippet.Title, filter) {
				continue
			}
			playlists = append(playlists, Playlist{
				ID:          item.ID,
				Title:       item.Snippet.Title,
				Description: item.Snippet.Description,
				ItemCount:   item.ContentDetails.ItemCount,
			})
		}

		if pr.NextPageToken == "" {
			return fn.Ok(playlists)
		}
		pageToken = pr.NextPageToken
	}
}

// PlaylistVideos lists every video in a playlist, following pagination.
func (c *YouTubeClient) PlaylistVideos(ctx context.Context, playlistID string) fn.Result[[]Video] {
	var videos []Video
	pageToken := ""

	for {
		params := url.Values{
			"part":       {"snippet,contentDetails"},
			"playlistId": {playlistID},
			"maxResults": {"50"},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		body, err := c.get(ctx, "playlistItems", params)
		if err != nil {
			return fn.Err[[]Video](err)
		}

		var pir playlistItemsResponse
		if err := json.Unmarshal(body, &pir); err != nil {
			return fn.Err[[]Video](err)
		}

		for _, item := range pir.Items {
			id := item.ContentDetails.VideoID
			if id == "" {
				continue
			}
			published := item.ContentDetails.VideoPublishedAt
			if published == "" {
				published = item.Snippet.PublishedAt
			}
			pub, _ := time.Parse(time.RFC3339, published)
			videos = append(videos, Video{
				VideoID:     id,
				URL:         "https://www.youtube.com/watch?v=" + id,
				Title:       item.Snippet.Title,
				Description: item.Snippet.Description,
				PublishedAt: pub,
			})
		}

		if pir.NextPageToken == "" {
			return fn.Ok(videos)
		}
		pageToken = pir.NextPageToken
	}
}

// ChannelVideos lists every video across the channel's playlists matching
// filter, deduplicated by video ID. Videos appearing in several playlists are
// returned once.
func (c *YouTubeClient) ChannelVideos(ctx context.Context, filter string) fn.Result[[]Video] {
	playlists, err := c.Playlists(ctx, filter).Unwrap()
	if err != nil {
		return fn.Err[[]Video](err)
	}

	var all []Video
	for _, pl := range playlists {
		videos, err := c.PlaylistVideos(ctx, pl.ID).Unwrap()
		if err != nil {
			return fn.Err[[]Video](err)
		}
		all = append(all, videos...)
	}
	return fn.Ok(fn.UniqueBy(all, func(v Video) string { return v.VideoID }))
}

// Durations fetches the duration in seconds for each video ID. IDs are
// batched fifty per request, the endpoint's maximum.
func (c *YouTubeClient) Durations(ctx context.Context, ids []string) fn.Result[map[string]int] {
	durations := make(map[string]int, len(ids))

	for _, batch := range fn.Chunk(ids, 50) {
		params := url.Values{
			"part": {"contentDetails"},
			"id":   {strings.Join(batch, ",")},
		}
		body, err := c.get(ctx, "videos", params)
		if err != nil {
			return fn.Err[map[string]int](err)
		}

		var vr videosResponse
		if err := json.Unmarshal(body, &vr); err != nil {
			return fn.Err[map[string]int](err)
		}
		for _, item := range vr.Items {
			if secs, ok := parseISODuration(item.ContentDetails.Duration); ok {
				durations[item.ID] = secs
			}
		}
	}
	return fn.Ok(durations)
}

// parseISODuration converts an ISO 8601 duration like PT4M13S to seconds.
func parseISODuration(s string) (int, bool) {
	m := isoDuration.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	return h*3600 + min*60 + sec, true
}
