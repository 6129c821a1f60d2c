// Package tagger assigns year and topic tags to videos based on their
// extracted Hebrew date and subject.
package tagger

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"bitbucket.org/creachadair/stringset"
	"gopkg.in/yaml.v3"
)

// yearToken captures a Hebrew year at the end of a date string, like התשפ"ו
// or התשפא. Up to two letters or gershayim follow the התשפ stem.
var yearToken = regexp.MustCompile(`(התשפ[א-ת"']{0,2})$`)

// Rule is one topic tag: a video is tagged Name when its subject contains
// any of Terms and none of Exclude.
type Rule struct {
	Name    string   `yaml:"name"`
	Terms   []string `yaml:"terms"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// DefaultRules cover the recurring lecture topics. The פורים exclude keeps
// יום כיפור subjects from matching on the shared פור letters.
var DefaultRules = []Rule{
	{Name: "פרשת השבוע", Terms: []string{"פרשת"}},
	{Name: "שבת", Terms: []string{"שבת"}},
	{Name: "ראש חודש", Terms: []string{"ראש חודש"}},
	{Name: "ראש השנה", Terms: []string{"ראש השנה"}},
	{Name: "יום כיפור", Terms: []string{"כיפור"}},
	{Name: "סוכות", Terms: []string{"סוכות", "סוכה"}},
	{Name: "פסח", Terms: []string{"פסח", "חמץ", "מצה"}},
	{Name: "שבועות", Terms: []string{"שבועות"}},
	{Name: "חנוכה", Terms: []string{"חנוכה", "חנוכיה"}},
	{Name: "פורים", Terms: []string{"פורים"}, Exclude: []string{"כיפור"}},
	{Name: "כשרות", Terms: []string{"חלבי", "בשרי", "פרווה"}},
	{Name: "תענית", Terms: []string{"תענית", "צום"}},
	{Name: "ברכות", Terms: []string{"ברכות", "ברכה", "ברכת"}},
}

// Tagger matches videos against a rule set.
type Tagger struct {
	rules []Rule
}

// New creates a Tagger; nil rules means DefaultRules.
func New(rules []Rule) *Tagger {
	if rules == nil {
		rules = DefaultRules
	}
	return &Tagger{rules: rules}
}

// LoadRules reads a YAML rule file of the form:
//
//	rules:
//	  - name: שבת
//	    terms: [שבת]
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Rules []Rule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("tagger: parse %s: %w", path, err)
	}
	for _, r := range doc.Rules {
		if r.Name == "" || len(r.Terms) == 0 {
			return nil, fmt.Errorf("tagger: rule %q needs a name and at least one term", r.Name)
		}
	}
	return doc.Rules, nil
}

// YearTag extracts the Hebrew year token from a date string, or "" when
// there is none.
func YearTag(hebrewDate string) string {
	if hebrewDate == "" {
		return ""
	}
	m := yearToken.FindStringSubmatch(strings.TrimSpace(hebrewDate))
	if m == nil {
		return ""
	}
	return m[1]
}

// Tags returns every tag for a video, sorted: the year tag from its Hebrew
// date plus every topic rule its subject matches.
func (t *Tagger) Tags(hebrewDate, subject string) []string {
	tags := stringset.New()
	if year := YearTag(hebrewDate); year != "" {
		tags.Add(year)
	}
	for _, rule := range t.rules {
		if matchRule(rule, subject) {
			tags.Add(rule.Name)
		}
	}
	if tags.Empty() {
		return nil
	}
	return tags.Elements()
}

func matchRule(rule Rule, subject string) bool {
	if subject == "" {
		return false
	}
	for _, e := range rule.Exclude {
		if strings.Contains(subject, e) {
			return false
		}
	}
	for _, term := range rule.Terms {
		if strings.Contains(subject, term) {
			return true
		}
	}
	return false
}
