package hebdate

import (
	"errors"
	"fmt"
	"time"

	"github.com/hebcal/hebcal-go/hdate"
)

// Sentinel errors for calendar conversion. Both signal "date unknown" to the
// caller; neither should abort a batch.
var (
	// ErrIncompleteDate is returned when one or more of day/month/year
	// failed to parse.
	ErrIncompleteDate = errors.New("hebdate: incomplete date")
	// ErrInvalidDate is returned when the components decode cleanly but do
	// not form a real calendar date (day 30 in a 29-day month, Adar II in a
	// non-leap year, and so on).
	ErrInvalidDate = errors.New("hebdate: invalid date")
)

// hebrewDays are the weekday names, Sunday first.
var hebrewDays = [7]string{
	"ראשון",
	"שני",
	"שלישי",
	"רביעי",
	"חמישי",
	"שישי",
	"שבת",
}

// dayAbbreviations maps each weekday name to its traditional single-letter
// form. Shabbat keeps the full word.
var dayAbbreviations = map[string]string{
	"ראשון": "א'",
	"שני":   "ב'",
	"שלישי": "ג'",
	"רביעי": "ד'",
	"חמישי": "ה'",
	"שישי":  "ו'",
	"שבת":   "שבת",
}

// ToGregorian converts a fully parsed Hebrew date to the corresponding
// Gregorian date (midnight UTC). The month numbering follows the parser's
// Nisan=1 convention, which is also hdate's. Month 13 (Adar II) is only
// accepted in leap years of the 19-year cycle.
func ToGregorian(d ParsedDate) (time.Time, error) {
	if !d.Complete() {
		return time.Time{}, ErrIncompleteDate
	}
	if d.Year < 1 {
		return time.Time{}, fmt.Errorf("%w: year %d", ErrInvalidDate, d.Year)
	}
	if d.Month < 1 || d.Month > hdate.MonthsInYear(d.Year) {
		return time.Time{}, fmt.Errorf("%w: month %d in year %d", ErrInvalidDate, d.Month, d.Year)
	}
	month := hdate.HMonth(d.Month)
	if d.Day < 1 || d.Day > hdate.DaysInMonth(month, d.Year) {
		return time.Time{}, fmt.Errorf("%w: day %d in month %d year %d", ErrInvalidDate, d.Day, d.Month, d.Year)
	}
	return hdate.New(d.Year, month, d.Day).Gregorian(), nil
}

// DayOfWeek runs raw through the full parse → Gregorian pipeline and
// returns the Hebrew weekday name. time.Weekday is Sunday-based, which is
// exactly the Hebrew week index, so it indexes the name table directly.
func DayOfWeek(raw string) (string, error) {
	g, err := ToGregorian(ParseDateString(raw))
	if err != nil {
		return "", err
	}
	return hebrewDays[int(g.Weekday())], nil
}

// DayAbbreviation returns the traditional abbreviation for a full weekday
// name, or false for anything not in the seven-name table.
func DayAbbreviation(dayName string) (string, bool) {
	abbrev, ok := dayAbbreviations[dayName]
	return abbrev, ok
}
