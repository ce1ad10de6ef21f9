package extract

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrUnsupported is returned when no extractor handles an input.
var ErrUnsupported = errors.New("extract: unsupported document format")

// Input is a document to extract text from. Name is used for extension
// based lookup when ContentType is empty or unknown.
type Input struct {
	Name        string
	ContentType string
	Data        []byte
}

// Result is the plain text of a document and its page count.
type Result struct {
	Text      string `json:"text"`
	PageCount int    `json:"pageCount"`
}

// Extractor turns a document into text.
type Extractor interface {
	Extract(ctx context.Context, in Input) (Result, error)
}

// Func adapts a function into an Extractor.
type Func func(ctx context.Context, in Input) (Result, error)

// Extract calls the underlying function.
func (fn Func) Extract(ctx context.Context, in Input) (Result, error) {
	return fn(ctx, in)
}

// Registry selects an extractor by media type or file extension. It is safe
// for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	byType       map[string]Extractor
	byExtension  map[string]Extractor
	contentTypes []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byType:      make(map[string]Extractor),
		byExtension: make(map[string]Extractor),
	}
}

// DefaultRegistry handles plain text and XLSX spreadsheets.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(PlainText{}, []string{"text/plain"}, []string{".txt", ".text"})
	r.MustRegister(Spreadsheet{}, []string{
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}, []string{".xlsx", ".xlsm"})
	return r
}

// Register binds extractor to the given media types and extensions.
// Duplicate bindings return an error.
func (r *Registry) Register(extractor Extractor, contentTypes, extensions []string) error {
	if extractor == nil {
		return errors.New("extract: extractor is required")
	}
	if len(contentTypes) == 0 && len(extensions) == 0 {
		return errors.New("extract: at least one content type or extension is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ct := range contentTypes {
		key := normalizeContentType(ct)
		if key == "" {
			return fmt.Errorf("extract: invalid content type %q", ct)
		}
		if _, exists := r.byType[key]; exists {
			return fmt.Errorf("extract: content type %q already registered", key)
		}
	}
	for _, ext := range extensions {
		key := normalizeExtension(ext)
		if _, exists := r.byExtension[key]; exists {
			return fmt.Errorf("extract: extension %q already registered", key)
		}
	}

	for _, ct := range contentTypes {
		key := normalizeContentType(ct)
		r.byType[key] = extractor
		r.contentTypes = append(r.contentTypes, key)
	}
	for _, ext := range extensions {
		r.byExtension[normalizeExtension(ext)] = extractor
	}
	sort.Strings(r.contentTypes)
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(extractor Extractor, contentTypes, extensions []string) {
	if err := r.Register(extractor, contentTypes, extensions); err != nil {
		panic(err)
	}
}

// ContentTypes lists the registered media types.
func (r *Registry) ContentTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.contentTypes...)
}

// For returns the extractor for in. The media type wins over the extension.
func (r *Registry) For(in Input) (Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if key := normalizeContentType(in.ContentType); key != "" {
		if extractor, ok := r.byType[key]; ok {
			return extractor, nil
		}
	}
	if ext := filepath.Ext(in.Name); ext != "" {
		if extractor, ok := r.byExtension[normalizeExtension(ext)]; ok {
			return extractor, nil
		}
	}

	label := in.ContentType
	if label == "" {
		label = in.Name
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, label)
}

// Extract looks up the extractor for in and runs it.
func (r *Registry) Extract(ctx context.Context, in Input) (Result, error) {
	extractor, err := r.For(in)
	if err != nil {
		return Result{}, err
	}
	return extractor.Extract(ctx, in)
}

func normalizeContentType(ct string) string {
	ct = strings.TrimSpace(ct)
	if ct == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
