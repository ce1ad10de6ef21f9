package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// DefaultMaxBytes caps downloaded documents.
const DefaultMaxBytes int64 = 20 << 20

// ErrTooLarge is returned when a download exceeds the size cap.
var ErrTooLarge = errors.New("extract: document exceeds size limit")

// Fetcher downloads documents referenced by URL.
type Fetcher struct {
	Client   *http.Client
	MaxBytes int64
}

// NewFetcher returns a Fetcher with a bounded client timeout and the default
// size cap.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		Client:   &http.Client{Timeout: timeout},
		MaxBytes: DefaultMaxBytes,
	}
}

// Fetch retrieves rawURL (http or https only) and returns it as an Input
// named after the last path segment.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Input, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Input{}, fmt.Errorf("extract: parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Input{}, fmt.Errorf("extract: unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return Input{}, errors.New("extract: url host is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Input{}, fmt.Errorf("extract: build request: %w", err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Input{}, fmt.Errorf("extract: fetch %s: %w", u.Redacted(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Input{}, fmt.Errorf("extract: fetch %s: unexpected status %d", u.Redacted(), resp.StatusCode)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return Input{}, fmt.Errorf("extract: read body: %w", err)
	}
	if int64(len(data)) > limit {
		return Input{}, ErrTooLarge
	}

	return Input{
		Name:        fileName(u, resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func fileName(u *url.URL, disposition string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil && params["filename"] != "" {
			return path.Base(params["filename"])
		}
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return base
}
