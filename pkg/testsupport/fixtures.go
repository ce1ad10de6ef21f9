package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// LoadText reads a text fixture such as extracted document content. Testing
// helpers fail the test on error to keep table tests concise.
func LoadText(t *testing.T, path string) string {
	t.Helper()

	text, err := LoadTextFromPath(path)
	if err != nil {
		t.Fatalf("load text: %v", err)
	}
	return text
}

// LoadTextFromPath returns fixture text without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadTextFromPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("testsupport: text path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("testsupport: read text: %w", err)
	}
	return string(data), nil
}

// MustLoadJSON decodes a JSON golden file into out.
func MustLoadJSON(t *testing.T, path string, out any) {
	t.Helper()

	if err := LoadJSON(path, out); err != nil {
		t.Fatalf("load golden: %v", err)
	}
}

// LoadJSON decodes a JSON fixture into out, returning an error for callers
// managing setup outside of *testing.T.
func LoadJSON(path string, out any) error {
	if path == "" {
		return errors.New("testsupport: golden path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("testsupport: read golden: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("testsupport: unmarshal golden: %w", err)
	}
	return nil
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureRender executes a render function that writes to an io.Writer and
// returns the written payload.
func CaptureRender(t *testing.T, render func(io.Writer) error) string {
	t.Helper()

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}
