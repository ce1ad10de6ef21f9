package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/goliatone/go-expatform/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Store.DSN = ":memory:"
	return cfg
}

func TestApp_Routes(t *testing.T) {
	a, err := newApp(context.Background(), testConfig(t), zap.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	for _, tc := range []struct {
		method, path string
		body         string
		status       int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/api/schemas", "", http.StatusOK},
		{http.MethodPost, "/api/pdf-form/translate", `{"text":"Name"}`, http.StatusOK},
		{http.MethodGet, "/api/pdf-form/forms/unknown", "", http.StatusNotFound},
		{http.MethodGet, "/api/pdf-form/analyze", "", http.StatusMethodNotAllowed},
	} {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		if tc.body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		rec := httptest.NewRecorder()
		a.handler.ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Errorf("%s %s: expected status %d, got %d: %s", tc.method, tc.path, tc.status, rec.Code, rec.Body.String())
		}
	}
}

func TestBuildAnalyzer_ExtraRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	rules := "rules:\n  - type: date\n    keywords: [frist]\n"
	if err := os.WriteFile(path, []byte(rules), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	analyzer, err := buildAnalyzer(config.Classifier{ExtraRulesFile: path})
	if err != nil {
		t.Fatalf("build analyzer: %v", err)
	}
	got, ok := analyzer.Classify("Frist der Anmeldung")
	if !ok || got.Type != "date" {
		t.Fatalf("expected date classification, got %+v", got)
	}

	if _, err := buildAnalyzer(config.Classifier{RulesFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatalf("expected error for missing rules file")
	}
}
