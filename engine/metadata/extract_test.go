package metadata

import "testing"

func TestExtractDateAndSubject(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantDate string
		wantSubj string
	}{
		{
			"full title",
			"הגאון הרב אהרון בוטבול - הלכה יומית - ג' תשרי התשפ\"ו - הלכות צום גדליה",
			"ג' תשרי התשפ\"ו",
			"הלכות צום גדליה",
		},
		{
			"description form",
			"הלכה יומית - י\"א תשרי התשפ\"ו - הלכות סוכה",
			"י\"א תשרי התשפ\"ו",
			"הלכות סוכה",
		},
		{
			"date only",
			"הלכה יומית - ג' תשרי התשפ\"ו",
			"ג' תשרי התשפ\"ו",
			"",
		},
		{
			"forwarded section dropped",
			"הלכה יומית - ג' תשרי התשפ\"ו - הלכות תשובה\n\nהצטרפו לקבוצת הוואטסאפ",
			"ג' תשרי התשפ\"ו",
			"הלכות תשובה",
		},
		{
			"subject keeps internal separators",
			"הלכה יומית - ג' תשרי התשפ\"ו - הלכות שבת - מוקצה",
			"ג' תשרי התשפ\"ו",
			"הלכות שבת - מוקצה",
		},
		{"missing series prefix", "שיעור מיוחד לראש השנה", "", ""},
		{"empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, subj := ExtractDateAndSubject(tt.in)
			if date != tt.wantDate || subj != tt.wantSubj {
				t.Errorf("got (%q, %q), want (%q, %q)", date, subj, tt.wantDate, tt.wantSubj)
			}
		})
	}
}

func TestDerive(t *testing.T) {
	rec := Derive("vid1",
		"הגאון הרב אהרון בוטבול - הלכה יומית - ג' תשרי התשפ\"ו - הלכות צום גדליה",
		"")
	if rec.VideoID != "vid1" {
		t.Errorf("video id = %q", rec.VideoID)
	}
	if rec.HebrewDate != "ג' תשרי התשפ\"ו" {
		t.Errorf("hebrew date = %q", rec.HebrewDate)
	}
	if rec.DayOfWeek != "חמישי" { // 2025-09-25 is a Thursday
		t.Errorf("day of week = %q", rec.DayOfWeek)
	}
	if rec.Subject != "הלכות צום גדליה" {
		t.Errorf("subject = %q", rec.Subject)
	}
}

func TestDerive_DescriptionFallback(t *testing.T) {
	rec := Derive("vid2",
		"שיעור בוקר",
		"הלכה יומית - ד' תשרי התשפ\"ו - הלכות תשובה")
	if rec.HebrewDate != "ד' תשרי התשפ\"ו" {
		t.Errorf("hebrew date = %q", rec.HebrewDate)
	}
	if rec.DayOfWeek != "שישי" { // 2025-09-26 is a Friday
		t.Errorf("day of week = %q", rec.DayOfWeek)
	}
}

func TestDerive_UnparsableDate(t *testing.T) {
	rec := Derive("vid3", "הלכה יומית - מוצאי שבת - הלכות הבדלה", "")
	if rec.HebrewDate != "מוצאי שבת" {
		t.Errorf("hebrew date = %q", rec.HebrewDate)
	}
	if rec.DayOfWeek != "" {
		t.Errorf("day of week = %q, want empty for unparsable date", rec.DayOfWeek)
	}
	if rec.Subject != "הלכות הבדלה" {
		t.Errorf("subject = %q", rec.Subject)
	}
}

func TestDerive_OverlongDateDropped(t *testing.T) {
	long := "הלכה יומית - " +
		"תאריך ארוך מאוד שאינו תאריך אמיתי אלא טקסט חופשי שממשיך עוד ועוד בלי סוף עד שהוא עובר את המגבלה"
	rec := Derive("vid4", long, "")
	if rec.HebrewDate != "" {
		t.Errorf("hebrew date = %q, want empty for overlong value", rec.HebrewDate)
	}
	if rec.DayOfWeek != "" {
		t.Errorf("day of week = %q, want empty", rec.DayOfWeek)
	}
}
