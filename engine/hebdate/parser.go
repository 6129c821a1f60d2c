package hebdate

import (
	"regexp"
	"strings"
)

// hebrewMonths maps month names (including spelling variants and the two
// leap-year Adar forms) to month numbers in the Nisan=1 .. Tishrei=7
// convention; Adar II is 13 and exists only in leap years.
var hebrewMonths = map[string]int{
	"ניסן":  1,
	"אייר":  2,
	"סיון":  3,
	"סיוון": 3,
	"תמוז":  4,
	"אב":    5,
	"אלול":  6,
	"תשרי":  7,
	"חשון":  8,
	"חשוון": 8,
	"כסלו":  9,
	"טבת":   10,
	"שבט":   11,
	"אדר":   12,
	"אדר א": 12,
	"אדר ב": 13,
}

// ParsedDate holds the three components of a Hebrew date. A zero field means
// that component could not be decoded; none of the components has zero as a
// legal value. Incomplete dates are representable on purpose — the caller
// decides what to do with a partially parsed record.
type ParsedDate struct {
	Day   int
	Month int
	Year  int
}

// Complete reports whether all three components were decoded.
func (d ParsedDate) Complete() bool {
	return d.Day != 0 && d.Month != 0 && d.Year != 0
}

// dayPrefix matches a single Hebrew letter with an optional apostrophe at
// the start of the string, e.g. "ג' תשרי...". The letter is read as the day
// of the month.
var dayPrefix = regexp.MustCompile(`^([א-ת])'?\s+`)

// ParseYear decodes a Hebrew year token such as התשפ"ו or תשפ"ו to a full
// year like 5786. A single leading ה (the millennium marker) is dropped, and
// values under 1000 are assumed to be sixth-millennium years and get 5000
// added; values of 1000 and above pass through unchanged.
func ParseYear(year string) (int, bool) {
	if year == "" {
		return 0, false
	}
	cleaned := strings.TrimPrefix(year, "ה")
	v, ok := DecodeNumeral(cleaned)
	if !ok {
		return 0, false
	}
	if v < 1000 {
		v += 5000
	}
	return v, true
}

// parseYearTokens decodes tokens[0] as a year, and when that fails retries
// with tokens[0]+tokens[1] joined. Year tokens are sometimes split across a
// whitespace boundary by an embedded quote character (e.g. `התשפ"` + `ג`).
func parseYearTokens(tokens []string) (int, bool) {
	if len(tokens) == 0 {
		return 0, false
	}
	if y, ok := ParseYear(tokens[0]); ok {
		return y, true
	}
	if len(tokens) >= 2 {
		return ParseYear(tokens[0] + tokens[1])
	}
	return 0, false
}

// ParseDateString extracts (day, month, year) from a raw Hebrew date string
// as found in a video title or description. Recognized shapes:
//
//	ג' תשרי התשפ"ו        (single-letter day prefix)
//	כ"ה כסלו התשפ"ו       (numeral day, month, year)
//	שבת י"א תשרי התשפ"ו   (leading שבת is dropped)
//
// Anything after the first newline is discarded (forwarded-message text is
// frequently appended there). Each field that cannot be decoded is left
// zero; the function never fails as a whole.
func ParseDateString(raw string) ParsedDate {
	if raw == "" {
		return ParsedDate{}
	}
	dateStr := strings.TrimSpace(strings.SplitN(raw, "\n", 2)[0])

	// Single-letter prefix: the letter could be a day-of-week abbreviation
	// or the day of the month. It is always read as the day of the month.
	if m := dayPrefix.FindStringSubmatchIndex(dateStr); m != nil {
		letter := []rune(dateStr[m[2]:m[3]])
		var d ParsedDate
		if len(letter) == 1 {
			d.Day = hebrewNumerals[letter[0]]
		}
		parts := strings.Fields(dateStr[m[1]:])
		if len(parts) >= 2 {
			d.Month = hebrewMonths[parts[0]]
			d.Year, _ = parseYearTokens(parts[1:])
		}
		return d
	}

	dateStr = strings.TrimPrefix(dateStr, "שבת ")

	parts := strings.Fields(dateStr)
	if len(parts) < 3 {
		return ParsedDate{}
	}

	var d ParsedDate
	d.Day, _ = DecodeNumeral(parts[0])
	d.Month = hebrewMonths[parts[1]]
	d.Year, _ = parseYearTokens(parts[2:])
	return d
}
