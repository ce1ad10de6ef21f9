package model

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxLabelLength caps cleaned labels, counted in runes.
const MaxLabelLength = 100

var (
	labelStripPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// DefaultLabeler turns a raw document line into a display label. Punctuation
// and symbols are removed, whitespace runs collapse to one space and the
// result is capped at MaxLabelLength runes.
func DefaultLabeler(line string) string {
	cleaned := labelStripPattern.ReplaceAllString(line, "")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	return truncateRunes(cleaned, MaxLabelLength)
}

func truncateRunes(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return strings.TrimSpace(string(runes[:limit]))
}

// Placeholder returns the German input hint shown for a field kind.
func Placeholder(t FieldType) string {
	switch t {
	case FieldTypeEmail:
		return "ihre.email@beispiel.de"
	case FieldTypeDate:
		return "DD.MM.YYYY"
	case FieldTypeNumber:
		return "123456789"
	case FieldTypeTextarea:
		return "Geben Sie hier Ihre Antwort ein..."
	default:
		return "Bitte ausfüllen..."
	}
}

var requiredMarkers = []string{"required", "erforderlich", "*", "muss", "notwendig"}

// IsRequired reports whether the line carries a requirement marker.
func IsRequired(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range requiredMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

const (
	EmailPattern = `^[^@]+@[^@]+\.[^@]+$`
	DatePattern  = `^\d{2}\.\d{2}\.\d{4}$`
)

// ValidationFor returns the answer rule attached to email, number and date
// fields. Other kinds carry none.
func ValidationFor(t FieldType) *Validation {
	switch t {
	case FieldTypeEmail:
		return &Validation{
			Pattern: EmailPattern,
			Message: "Bitte geben Sie eine gültige E-Mail-Adresse ein",
		}
	case FieldTypeNumber:
		lo := 0.0
		return &Validation{
			Min:     &lo,
			Message: "Bitte geben Sie eine gültige Zahl ein",
		}
	case FieldTypeDate:
		return &Validation{
			Pattern: DatePattern,
			Message: "Bitte verwenden Sie das Format DD.MM.YYYY",
		}
	default:
		return nil
	}
}
