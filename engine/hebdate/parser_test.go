package hebdate

import "testing"

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{`התשפ"ו`, 5786},
		{`תשפ"ו`, 5786},
		{`התשפ"ג`, 5783},
		{`התש"ם`, 0}, // final mem is not a numeral letter
	}
	for _, tt := range tests {
		got, ok := ParseYear(tt.in)
		if tt.want == 0 {
			if ok {
				t.Errorf("ParseYear(%q) = %d, want failure", tt.in, got)
			}
			continue
		}
		if !ok || got != tt.want {
			t.Errorf("ParseYear(%q) = %d (%v), want %d", tt.in, got, ok, tt.want)
		}
	}
}

func TestParseYear_ThousandsPassThrough(t *testing.T) {
	// התתר"נ decodes to 1050, already a full value: no +5000.
	got, ok := ParseYear(`התתר"נ`)
	if !ok || got != 1050 {
		t.Errorf("ParseYear = %d (%v), want 1050", got, ok)
	}
}

func TestParseDateString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ParsedDate
	}{
		{"single letter day prefix", "ג' תשרי התשפ\"ו", ParsedDate{Day: 3, Month: 7, Year: 5786}},
		{"numeral day", "י\"א תשרי התשפ\"ו", ParsedDate{Day: 11, Month: 7, Year: 5786}},
		{"kislev", "כ\"ה כסלו התשפ\"ו", ParsedDate{Day: 25, Month: 9, Year: 5786}},
		{"shabbat prefix", "שבת י\"א תשרי התשפ\"ו", ParsedDate{Day: 11, Month: 7, Year: 5786}},
		{"trailing annotation after newline", "ג' תשרי התשפ\"ו\nהועבר בוואטסאפ", ParsedDate{Day: 3, Month: 7, Year: 5786}},
		{"month spelling variant", "ד' חשוון התשפ\"ו", ParsedDate{Day: 4, Month: 8, Year: 5786}},
		{"unknown month", "ג' ינואר התשפ\"ו", ParsedDate{Day: 3, Month: 0, Year: 5786}},
		{"too few tokens", "תשרי התשפ\"ו", ParsedDate{}},
		{"empty", "", ParsedDate{}},
		{"split year after prefix", "ג' תשרי ה תשפ\"ו", ParsedDate{Day: 3, Month: 7, Year: 5786}},
		{"split year generic", "כ\"ה כסלו ה תשפ\"ו", ParsedDate{Day: 25, Month: 9, Year: 5786}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDateString(tt.in)
			if got != tt.want {
				t.Errorf("ParseDateString(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDateString_PartialFailureIsNotFatal(t *testing.T) {
	// Bad day numeral, good month and year.
	got := ParseDateString("xx תשרי התשפ\"ו")
	if got.Day != 0 {
		t.Errorf("day = %d, want 0", got.Day)
	}
	if got.Month != 7 || got.Year != 5786 {
		t.Errorf("month/year = %d/%d, want 7/5786", got.Month, got.Year)
	}
	if got.Complete() {
		t.Error("date with unknown day must not be Complete")
	}
}
