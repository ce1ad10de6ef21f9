package model

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func TestClassify_DefaultTable(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		line string
		want FieldType
	}{
		{line: "Email Address / E-Mail-Adresse", want: FieldTypeEmail},
		{line: "Reach me @ work", want: FieldTypeEmail},
		{line: "Date of birth and email", want: FieldTypeEmail},
		{line: "Start Date / Startdatum", want: FieldTypeDate},
		{line: "Checkout deadline", want: FieldTypeDate},
		{line: "Salary / Gehalt", want: FieldTypeNumber},
		{line: "Telefon", want: FieldTypeNumber},
		{line: "☐ Programming / Programmierung", want: FieldTypeCheckbox},
		{line: "I consent to data processing", want: FieldTypeCheckbox},
		{line: "Skills / Fähigkeiten", want: FieldTypeRadio},
		{line: "Native / Muttersprache", want: FieldTypeSelect},
		{line: "Primary LANGUAGE", want: FieldTypeSelect},
		{line: "Comments", want: FieldTypeTextarea},
		{line: "Bemerkung", want: FieldTypeTextarea},
		{line: strings.Repeat("x", 51), want: FieldTypeTextarea},
		{line: strings.Repeat("x", 50), want: FieldTypeText},
		{line: "Name: ______", want: FieldTypeText},
		{line: "abc", want: FieldTypeText},
	}

	for _, tt := range tests {
		got, ok := Classify(tt.line, rules)
		if !ok {
			t.Fatalf("classify %q: expected a classification", tt.line)
		}
		if got.Type != tt.want {
			t.Fatalf("classify %q: want %s, got %s", tt.line, tt.want, got.Type)
		}
		if got.Type.HasOptions() != (len(got.Options) > 0) {
			t.Fatalf("classify %q: options invariant broken: %+v", tt.line, got)
		}
	}
}

func TestClassify_ShortLines(t *testing.T) {
	for _, line := range []string{"", "  ", "ab", "  a  ", "\t@\t"} {
		if got, ok := Classify(line, DefaultRules()); ok {
			t.Fatalf("classify %q: expected rejection, got %+v", line, got)
		}
	}
}

func TestClassify_RuneLength(t *testing.T) {
	// Three runes but more than three bytes.
	got, ok := Classify("Öäü", DefaultRules())
	if !ok || got.Type != FieldTypeText {
		t.Fatalf("unexpected classification: %+v ok=%v", got, ok)
	}
	long := strings.Repeat("ä", 51)
	if got, _ := Classify(long, DefaultRules()); got.Type != FieldTypeTextarea {
		t.Fatalf("expected textarea for 51 runes, got %s", got.Type)
	}
	if got, _ := Classify(strings.Repeat("ä", 50), DefaultRules()); got.Type != FieldTypeText {
		t.Fatalf("expected text for 50 runes, got %s", got.Type)
	}
}

func TestClassify_OptionsAreCopies(t *testing.T) {
	rules := DefaultRules()
	got, _ := Classify("Skills", rules)
	got.Options[0] = "mutated"

	again, _ := Classify("Skills", rules)
	if again.Options[0] != "Programming / Programmierung" {
		t.Fatalf("classification shares option storage with rule table")
	}
	if DefaultRules()[4].Options[0] != "Programming / Programmierung" {
		t.Fatalf("default rules were mutated")
	}
}

func TestClassify_NoCatchAll(t *testing.T) {
	rules := []Rule{{Type: FieldTypeDate, Keywords: []string{"termin"}}}
	got, ok := Classify("Wohnort", rules)
	if !ok || got.Type != FieldTypeText {
		t.Fatalf("expected text fallback, got %+v ok=%v", got, ok)
	}
}

func TestLoadRules(t *testing.T) {
	doc := `
rules:
  - type: date
    keywords: [" Termin ", Frist]
  - type: select
    keywords: [kanton]
    options: [ZH, BE, LU]
`
	rules, err := LoadRules(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	want := []Rule{
		{Type: FieldTypeDate, Keywords: []string{"termin", "frist"}},
		{Type: FieldTypeSelect, Keywords: []string{"kanton"}, Options: []string{"ZH", "BE", "LU"}},
	}
	if diff := cmp.Diff(want, rules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRules_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown type":        "rules:\n  - type: signature\n    keywords: [sign]\n",
		"select needs opts":   "rules:\n  - type: select\n    keywords: [kanton]\n",
		"text cannot have":    "rules:\n  - type: text\n    options: [a]\n",
		"negative min length": "rules:\n  - type: textarea\n    minLength: -1\n",
		"unknown key":         "rules:\n  - type: text\n    weight: 3\n",
	}
	for name, doc := range tests {
		if _, err := LoadRules(strings.NewReader(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestDefaultLabeler(t *testing.T) {
	tests := map[string]string{
		"Full Name / Vollständiger Name *":   "Full Name Vollständiger Name",
		"Name: ______":                       "Name ______",
		"Straße / Street!!":                  "Straße Street",
		"  ☐   I agree   ":                   "I agree",
		"Postal Code (PLZ) / Postleitzahl:":  "Postal Code PLZ Postleitzahl",
		"E-Mail":                             "EMail",
		"***":                                "",
	}
	for in, want := range tests {
		if got := DefaultLabeler(in); got != want {
			t.Fatalf("label %q: want %q, got %q", in, want, got)
		}
	}

	long := DefaultLabeler(strings.Repeat("Ärger ", 40))
	if n := utf8.RuneCountInString(long); n > MaxLabelLength {
		t.Fatalf("label exceeds %d runes: %d", MaxLabelLength, n)
	}
	if !strings.HasPrefix(long, "Ärger Ärger") {
		t.Fatalf("unexpected label prefix: %q", long)
	}
}

func TestIsRequired(t *testing.T) {
	for _, line := range []string{"Name *", "Pflichtfeld (erforderlich)", "Required field", "Muss ausgefüllt werden", "NOTWENDIG"} {
		if !IsRequired(line) {
			t.Fatalf("expected %q to be required", line)
		}
	}
	if IsRequired("Optional comment") {
		t.Fatalf("expected optional line to not be required")
	}
}

func TestValidationFor(t *testing.T) {
	if v := ValidationFor(FieldTypeEmail); v == nil || v.Pattern != EmailPattern {
		t.Fatalf("unexpected email validation: %+v", v)
	}
	if v := ValidationFor(FieldTypeDate); v == nil || v.Pattern != DatePattern {
		t.Fatalf("unexpected date validation: %+v", v)
	}
	v := ValidationFor(FieldTypeNumber)
	if v == nil || v.Min == nil || *v.Min != 0 || v.Pattern != "" {
		t.Fatalf("unexpected number validation: %+v", v)
	}
	for _, kind := range []FieldType{FieldTypeText, FieldTypeTextarea, FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox} {
		if ValidationFor(kind) != nil {
			t.Fatalf("%s should carry no validation", kind)
		}
	}
}
