package tagger

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestYearTag(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ג' תשרי התשפ\"ו", "התשפ\"ו"},
		{"י\"א ניסן התשפה", "התשפה"},
		{"  כ' אדר התשפ\"ו  ", "התשפ\"ו"},
		{"התשפ\"ו בסוף שורה אחרת", ""}, // token must end the string
		{"ג' תשרי", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := YearTag(tt.in); got != tt.want {
			t.Errorf("YearTag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTags_ManualRules(t *testing.T) {
	tg := New(nil)

	tests := []struct {
		subject string
		want    []string
	}{
		{"הלכות שבת", []string{"שבת"}},
		{"דיני חמץ ומצה", []string{"פסח"}},
		{"הלכות יום הכיפורים", []string{"יום כיפור"}},
		{"ברכת המזון", []string{"ברכות"}},
		{"עניינים כלליים", nil},
	}
	for _, tt := range tests {
		got := tg.Tags("", tt.subject)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tags(%q) = %v, want %v", tt.subject, got, tt.want)
		}
	}
}

func TestTags_PurimExcludesKippur(t *testing.T) {
	tg := New(nil)
	got := tg.Tags("", "הלכות יום כיפור")
	for _, tag := range got {
		if tag == "פורים" {
			t.Fatalf("כיפור subject wrongly tagged פורים: %v", got)
		}
	}
}

func TestTags_CombinesYearAndTopics(t *testing.T) {
	tg := New(nil)
	got := tg.Tags("ג' תשרי התשפ\"ו", "הלכות שבת ופרשת האזינו")

	want := map[string]bool{"התשפ\"ו": true, "שבת": true, "פרשת השבוע": true}
	if len(got) != len(want) {
		t.Fatalf("Tags = %v", got)
	}
	for _, tag := range got {
		if !want[tag] {
			t.Errorf("unexpected tag %q", tag)
		}
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	doc := `rules:
  - name: שבת
    terms: [שבת]
  - name: פורים
    terms: [פורים]
    exclude: [כיפור]
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 2 || rules[1].Exclude[0] != "כיפור" {
		t.Fatalf("rules = %+v", rules)
	}
}

func TestLoadRules_RejectsEmptyTerms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("rules:\n  - name: ריק\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Fatal("expected error for rule without terms")
	}
}
