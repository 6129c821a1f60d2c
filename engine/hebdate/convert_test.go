package hebdate

import (
	"errors"
	"testing"
	"time"
)

func TestToGregorian_KnownDates(t *testing.T) {
	tests := []struct {
		in   ParsedDate
		want string // YYYY-MM-DD
	}{
		{ParsedDate{Day: 3, Month: 7, Year: 5786}, "2025-09-25"},
		{ParsedDate{Day: 4, Month: 7, Year: 5786}, "2025-09-26"},
		{ParsedDate{Day: 11, Month: 7, Year: 5786}, "2025-10-03"},
	}
	for _, tt := range tests {
		got, err := ToGregorian(tt.in)
		if err != nil {
			t.Errorf("ToGregorian(%+v): %v", tt.in, err)
			continue
		}
		if s := got.Format("2006-01-02"); s != tt.want {
			t.Errorf("ToGregorian(%+v) = %s, want %s", tt.in, s, tt.want)
		}
	}
}

func TestToGregorian_Incomplete(t *testing.T) {
	incomplete := []ParsedDate{
		{},
		{Day: 3, Month: 7},
		{Day: 3, Year: 5786},
		{Month: 7, Year: 5786},
	}
	for _, d := range incomplete {
		if _, err := ToGregorian(d); !errors.Is(err, ErrIncompleteDate) {
			t.Errorf("ToGregorian(%+v) err = %v, want ErrIncompleteDate", d, err)
		}
	}
}

func TestToGregorian_InvalidDates(t *testing.T) {
	invalid := []ParsedDate{
		{Day: 30, Month: 4, Year: 5786},  // Tamuz has 29 days
		{Day: 1, Month: 13, Year: 5786},  // 5786 is not a leap year
		{Day: 31, Month: 7, Year: 5786},  // no Hebrew month has 31 days
		{Day: 1, Month: 14, Year: 5786},  // month out of range
		{Day: 1, Month: 7, Year: -5786},  // negative year
	}
	for _, d := range invalid {
		if _, err := ToGregorian(d); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ToGregorian(%+v) err = %v, want ErrInvalidDate", d, err)
		}
	}
}

func TestToGregorian_LeapYearAdarII(t *testing.T) {
	// 5787 is a leap year, so Adar II is a real month.
	got, err := ToGregorian(ParsedDate{Day: 1, Month: 13, Year: 5787})
	if err != nil {
		t.Fatalf("Adar II in leap year: %v", err)
	}
	if got.IsZero() {
		t.Fatal("expected a real date")
	}
}

func TestDayOfWeek(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ג' תשרי התשפ\"ו", "חמישי"},  // 2025-09-25 is a Thursday
		{"ד' תשרי התשפ\"ו", "שישי"},   // 2025-09-26 is a Friday
		{"י\"א תשרי התשפ\"ו", "שישי"}, // 2025-10-03 is a Friday
	}
	for _, tt := range tests {
		got, err := DayOfWeek(tt.in)
		if err != nil {
			t.Errorf("DayOfWeek(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("DayOfWeek(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDayOfWeek_MatchesGregorianWeekday(t *testing.T) {
	raw := "ג' תשרי התשפ\"ו"
	g, err := ToGregorian(ParseDateString(raw))
	if err != nil {
		t.Fatal(err)
	}
	name, err := DayOfWeek(raw)
	if err != nil {
		t.Fatal(err)
	}
	if want := hebrewDays[int(g.Weekday())]; name != want {
		t.Errorf("DayOfWeek = %q, want %q (gregorian %s)", name, want, g.Weekday())
	}
	if g.Weekday() != time.Thursday {
		t.Errorf("expected Thursday, got %s", g.Weekday())
	}
}

func TestDayOfWeek_UnparsableDate(t *testing.T) {
	if _, err := DayOfWeek("שיעור מיוחד"); err == nil {
		t.Fatal("expected error for unparsable date")
	}
}

func TestDayAbbreviation(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ראשון", "א'"},
		{"שלישי", "ג'"},
		{"חמישי", "ה'"},
		{"שבת", "שבת"},
	}
	for _, tt := range tests {
		got, ok := DayAbbreviation(tt.in)
		if !ok || got != tt.want {
			t.Errorf("DayAbbreviation(%q) = %q (%v), want %q", tt.in, got, ok, tt.want)
		}
	}
	if _, ok := DayAbbreviation("monday"); ok {
		t.Error("unknown day name should not resolve")
	}
}
