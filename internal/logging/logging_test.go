package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/goliatone/go-expatform/internal/logging"
)

func TestNew_JSONToWriterAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expatform.log")
	cfg := logging.DefaultConfig()
	cfg.File = path

	var buf bytes.Buffer
	logger, err := logging.NewWithWriter(cfg, &buf)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("form stored", zap.String("form_id", "abc"))
	_ = logger.Sync()

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode entry: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "form stored" || entry["form_id"] != "abc" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"form_id":"abc"`) || strings.Contains(string(data), "hidden") {
		t.Fatalf("unexpected file contents: %s", data)
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewWithWriter(logging.Config{Level: "debug", Format: "console"}, &buf)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("analyzing")
	_ = logger.Sync()
	if !strings.Contains(buf.String(), "analyzing") {
		t.Fatalf("expected console output, got %q", buf.String())
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := logging.New(logging.Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, err := logging.New(logging.Config{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
