// Package hebdate parses Hebrew date strings as they appear in lecture titles
// (numeral day, month name, numeral year) and converts them to Gregorian
// dates. Parse failures are reported per field as zero values, never as
// errors: untitled or oddly formatted videos are common and must not stop a
// batch run.
package hebdate

import "strings"

// hebrewNumerals assigns the traditional additive value to each of the 22
// letters: units, tens, hundreds.
var hebrewNumerals = map[rune]int{
	'א': 1, 'ב': 2, 'ג': 3, 'ד': 4, 'ה': 5, 'ו': 6, 'ז': 7, 'ח': 8, 'ט': 9,
	'י': 10, 'כ': 20, 'ל': 30, 'מ': 40, 'נ': 50, 'ס': 60, 'ע': 70, 'פ': 80, 'צ': 90,
	'ק': 100, 'ר': 200, 'ש': 300, 'ת': 400,
}

// DecodeNumeral converts a Hebrew numeral string such as ג' or י"א to its
// integer value. Apostrophes and double quotes are stripped first; every
// remaining rune must be one of the 22 value-bearing letters. Letter order
// does not matter — values are simply summed, which is how Hebrew numerals
// are conventionally read. The second return is false when the string is
// empty after stripping, contains an unknown rune, or sums to zero.
func DecodeNumeral(numeral string) (int, bool) {
	cleaned := strings.NewReplacer("'", "", `"`, "").Replace(numeral)
	if cleaned == "" {
		return 0, false
	}
	total := 0
	for _, r := range cleaned {
		v, ok := hebrewNumerals[r]
		if !ok {
			return 0, false
		}
		total += v
	}
	if total <= 0 {
		return 0, false
	}
	return total, true
}
