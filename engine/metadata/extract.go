// Package metadata derives structured attributes for a video from its title
// or description: the Hebrew date string, the weekday it implies, and the
// lecture subject.
package metadata

import (
	"strings"
	"unicode/utf8"

	"github.com/zmbq/butbul-halacha-ingest/engine/hebdate"
)

const (
	// presenterPrefix opens most video titles and carries no information.
	presenterPrefix = "הגאון הרב אהרון בוטבול - "
	// seriesPrefix marks the daily-halacha series; extraction requires it.
	seriesPrefix = "הלכה יומית - "

	// maxDateRunes guards the hebrew_date storage column; anything longer
	// is junk picked up from free-form text.
	maxDateRunes = 50
)

// Record is the derived metadata for one video. Empty strings mean the
// attribute could not be derived.
type Record struct {
	VideoID    string `json:"video_id"`
	HebrewDate string `json:"hebrew_date"`
	DayOfWeek  string `json:"day_of_week"`
	Subject    string `json:"subject"`
}

// ExtractDateAndSubject pulls the Hebrew date string and the subject out of
// a title or description of the shape
//
//	הגאון הרב אהרון בוטבול - הלכה יומית - [date] - [subject]
//	הלכה יומית - [date] - [subject]
//
// Text after the first blank line (the forwarded-message section of
// descriptions) is ignored. Returns empty strings when the text does not
// carry the series prefix.
func ExtractDateAndSubject(text string) (hebrewDate, subject string) {
	if text == "" {
		return "", ""
	}
	text = strings.TrimSpace(strings.SplitN(text, "\n\n", 2)[0])
	text = strings.TrimPrefix(text, presenterPrefix)

	rest, ok := strings.CutPrefix(text, seriesPrefix)
	if !ok {
		return "", ""
	}

	date, subj, found := strings.Cut(rest, " - ")
	if !found {
		return strings.TrimSpace(rest), ""
	}
	return strings.TrimSpace(date), strings.TrimSpace(subj)
}

// Derive builds the metadata record for a video, trying the title first and
// falling back to the description. The weekday comes from converting the
// Hebrew date to Gregorian; if the date does not parse or convert, the
// weekday stays empty and the record is still returned.
func Derive(videoID, title, description string) Record {
	date, subject := ExtractDateAndSubject(title)
	if date == "" {
		date, subject = ExtractDateAndSubject(description)
	}
	if utf8.RuneCountInString(date) > maxDateRunes {
		date = ""
	}

	rec := Record{VideoID: videoID, HebrewDate: date, Subject: subject}
	if date != "" {
		if day, err := hebdate.DayOfWeek(date); err == nil {
			rec.DayOfWeek = day
		}
	}
	return rec
}
