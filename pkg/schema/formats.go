package schema

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	uuidPattern       = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	postalCodePattern = regexp.MustCompile(`^\d{4}$`)
	swissPhonePattern = regexp.MustCompile(`^(\+41|0)\d{9}$`)

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "", "/", "", "(", "", ")", "")
)

var (
	validateOnce sync.Once
	validate     *validator.Validate

	sanitizerOnce sync.Once
	sanitizer     *bluemonday.Policy

	patternCache sync.Map
)

// IsUUID reports whether value is a canonical hyphenated UUID.
func IsUUID(value string) bool { return uuidPattern.MatchString(value) }

// IsEmail reports whether value looks like local@domain.tld without spaces.
func IsEmail(value string) bool { return emailPattern.MatchString(value) }

// IsSwissPostalCode reports whether value is a four digit postal code.
func IsSwissPostalCode(value string) bool { return postalCodePattern.MatchString(value) }

// NormalizeSwissPhone removes common separators from a phone number.
func NormalizeSwissPhone(value string) string { return phoneSeparators.Replace(value) }

// IsSwissPhone reports whether value is a Swiss number (+41 or 0 followed by
// nine digits) once separators are removed.
func IsSwissPhone(value string) bool {
	return swissPhonePattern.MatchString(NormalizeSwissPhone(value))
}

// IsURL reports whether value is an absolute URL with a scheme.
func IsURL(value string) bool {
	return urlValidator().Var(value, "required,url") == nil
}

// SanitizeText strips all HTML markup from value and returns plain text.
func SanitizeText(value string) string {
	if value == "" {
		return ""
	}
	cleaned := htmlSanitizer().Sanitize(value)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

func urlValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

func htmlSanitizer() *bluemonday.Policy {
	sanitizerOnce.Do(func() {
		sanitizer = bluemonday.StrictPolicy()
	})
	return sanitizer
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patternCache.Store(pattern, re)
	return re, nil
}
