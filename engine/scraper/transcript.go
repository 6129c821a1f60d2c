package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/zmbq/butbul-halacha-ingest/pkg/fn"
)

// timedText represents the YouTube timedtext XML response (srv3 format).
type timedText struct {
	XMLName xml.Name `xml:"timedtext"`
	Body    ttBody   `xml:"body"`
}

type ttBody struct {
	Paragraphs []ttParagraph `xml:"p"`
}

type ttParagraph struct {
	Start int    `xml:"t,attr"` // milliseconds
	Dur   int    `xml:"d,attr"`
	Text  string `xml:",chardata"`
}

// legacyTimedText is the older transcript XML format, with times in seconds.
type legacyTimedText struct {
	XMLName xml.Name      `xml:"transcript"`
	Texts   []legacyEntry `xml:"text"`
}

type legacyEntry struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

var bracketNoise = regexp.MustCompile(`\[(?:מוזיקה|מחיאות כפיים|Music|Applause|Laughter|Inaudible)\]`)
var multiSpace = regexp.MustCompile(`\s+`)

// captionTrack from the innertube player response.
type captionTrack struct {
	BaseURL string `json:"baseUrl"`
	Lang    string `json:"languageCode"`
	Kind    string `json:"kind"`
}

// isHebrew reports whether a caption track language code is Hebrew. YouTube
// uses the legacy "iw" code but "he" appears on some tracks.
func isHebrew(lang string) bool {
	return lang == "iw" || lang == "he" || strings.HasPrefix(lang, "iw-") || strings.HasPrefix(lang, "he-")
}

// GetTranscript fetches the timed transcript for a video using the innertube
// API. Hebrew manual captions are preferred, then Hebrew ASR, then any track.
func GetTranscript(ctx context.Context, client *http.Client, videoID string) fn.Result[Transcript] {
	tracks, err := fetchCaptionTracks(ctx, client, videoID)
	if err != nil {
		return fn.Err[Transcript](fmt.Errorf("no transcript available for video %s: %w", videoID, err))
	}

	type candidate struct {
		url  string
		lang string
	}
	var candidates []candidate
	for _, t := range tracks {
		if isHebrew(t.Lang) && t.Kind != "asr" {
			candidates = append([]candidate{{t.BaseURL + "&fmt=srv3", t.Lang}}, candidates...)
		} else if isHebrew(t.Lang) {
			candidates = append(candidates, candidate{t.BaseURL + "&fmt=srv3", t.Lang})
		}
	}
	if len(candidates) == 0 {
		for _, t := range tracks {
			candidates = append(candidates, candidate{t.BaseURL + "&fmt=srv3", t.Lang})
		}
	}

	for _, c := range candidates {
		segments, err := fetchSegmentsFromURL(ctx, client, c.url)
		if err == nil && len(segments) > 0 {
			return fn.Ok(Transcript{
				VideoID:  videoID,
				Source:   "youtube",
				Language: c.lang,
				Segments: segments,
			})
		}
	}

	return fn.Err[Transcript](fmt.Errorf("no transcript available for video %s", videoID))
}

// fetchCaptionTracks uses the YouTube innertube API (ANDROID client) to get caption track URLs.
func fetchCaptionTracks(ctx context.Context, client *http.Client, videoID string) ([]captionTrack, error) {
	payload := map[string]interface{}{
		"context": map[string]interface{}{
			"client": map[string]interface{}{
				"clientName":        "ANDROID",
				"clientVersion":     "19.09.37",
				"androidSdkVersion": 30,
				"hl":                "he",
				"gl":                "IL",
			},
		},
		"videoId":        videoID,
		"contentCheckOk": true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://www.youtube.com/youtubei/v1/player?prettyPrint=false",
		bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "com.google.android.youtube/19.09.37 (Linux; U; Android 11) gzip")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result struct {
		Captions struct {
			PlayerCaptionsTracklistRenderer struct {
				CaptionTracks []captionTrack `json:"captionTracks"`
			} `json:"playerCaptionsTracklistRenderer"`
		} `json:"captions"`
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}

	tracks := result.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no caption tracks in player response")
	}

	return tracks, nil
}

func fetchSegmentsFromURL(ctx context.Context, client *http.Client, u string) ([]CaptionSegment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "com.google.android.youtube/19.09.37 (Linux; U; Android 11) gzip")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != 200 || len(body) < 50 {
		return nil, fmt.Errorf("bad response: status=%d len=%d", resp.StatusCode, len(body))
	}

	return ParseTimedText(body)
}

// ParseTimedText decodes a timedtext document in either the srv3 format
// (<timedtext><body><p t="" d="">) or the legacy format
// (<transcript><text start="" dur="">) into timed caption segments.
// Entries whose text is empty after cleaning are dropped.
func ParseTimedText(body []byte) ([]CaptionSegment, error) {
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err == nil && len(tt.Body.Paragraphs) > 0 {
		var segments []CaptionSegment
		for _, p := range tt.Body.Paragraphs {
			text := CleanCaption(p.Text)
			if text == "" {
				continue
			}
			segments = append(segments, CaptionSegment{
				Start:    float64(p.Start) / 1000.0,
				Duration: float64(p.Dur) / 1000.0,
				Text:     text,
			})
		}
		return segments, nil
	}

	var legacy legacyTimedText
	if err := xml.Unmarshal(body, &legacy); err == nil && len(legacy.Texts) > 0 {
		var segments []CaptionSegment
		for _, t := range legacy.Texts {
			text := CleanCaption(t.Text)
			if text == "" {
				continue
			}
			start, err := strconv.ParseFloat(t.Start, 64)
			if err != nil {
				continue
			}
			dur, _ := strconv.ParseFloat(t.Dur, 64)
			segments = append(segments, CaptionSegment{
				Start:    start,
				Duration: dur,
				Text:     text,
			})
		}
		return segments, nil
	}

	return nil, fmt.Errorf("no text entries in transcript")
}

// CleanCaption removes bracket noise, decodes XML entities, collapses
// whitespace, and trims.
func CleanCaption(text string) string {
	text = bracketNoise.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "&#39;", "'")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
