package schema

import (
	"errors"
	"strings"
)

// ErrValidation is matched by every *ValidationError through errors.Is.
var ErrValidation = errors.New("validation failed")

// Issue is a single violation located by a dotted path. Array elements use
// their index as a segment, for example childrenAges.1.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError aggregates every issue found in one payload.
type ValidationError struct {
	Schema string  `json:"schema,omitempty"`
	Issues []Issue `json:"issues"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return "Validation failed: " + strings.Join(parts, ", ")
}

// Is allows errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IssuesOf extracts the issues carried by err, or nil when err is not a
// validation failure.
func IssuesOf(err error) []Issue {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return append([]Issue(nil), verr.Issues...)
	}
	return nil
}
