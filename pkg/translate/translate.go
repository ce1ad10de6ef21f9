package translate

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is the target language when callers pass none.
const DefaultLanguage = "de"

// DefaultConfidence is reported by glossaries that declare no confidence.
const DefaultConfidence = 0.85

//go:embed glossaries/*.yaml
var glossaryFS embed.FS

// Result describes one translation.
type Result struct {
	OriginalText   string  `json:"originalText"`
	TranslatedText string  `json:"translatedText"`
	Language       string  `json:"language"`
	Confidence     float64 `json:"confidence"`
}

// Translator translates free text into a target language.
type Translator interface {
	Translate(ctx context.Context, text, lang string) (Result, error)
}

// Func adapts a function into a Translator.
type Func func(ctx context.Context, text, lang string) (Result, error)

// Translate calls the underlying function.
func (fn Func) Translate(ctx context.Context, text, lang string) (Result, error) {
	return fn(ctx, text, lang)
}

// Term is one glossary replacement. From matches case-insensitively anywhere
// in the text.
type Term struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Glossary is an ordered list of replacements for one target language.
// Terms apply in order, each to the output of the previous one.
type Glossary struct {
	Language   string  `yaml:"language"`
	Confidence float64 `yaml:"confidence"`
	Terms      []Term  `yaml:"terms"`
}

type compiledTerm struct {
	pattern *regexp.Regexp
	to      string
}

type compiledGlossary struct {
	confidence float64
	terms      []compiledTerm
}

// Dictionary is a glossary based Translator. It is safe for concurrent use.
type Dictionary struct {
	mu         sync.RWMutex
	glossaries map[string]compiledGlossary
}

// Option configures a Dictionary.
type Option func(*Dictionary) error

// WithGlossary registers or replaces the glossary for its language.
func WithGlossary(g Glossary) Option {
	return func(d *Dictionary) error {
		return d.Add(g)
	}
}

// WithGlossaryFS loads every YAML glossary in fsys matching pattern.
func WithGlossaryFS(fsys fs.FS, pattern string) Option {
	return func(d *Dictionary) error {
		return d.LoadFS(fsys, pattern)
	}
}

// NewDictionary returns a Dictionary seeded with the embedded glossaries
// (German) and then the supplied options.
func NewDictionary(options ...Option) (*Dictionary, error) {
	d := &Dictionary{glossaries: make(map[string]compiledGlossary)}
	if err := d.LoadFS(glossaryFS, "glossaries/*.yaml"); err != nil {
		return nil, err
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Languages lists the languages with a registered glossary.
func (d *Dictionary) Languages() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]string, 0, len(d.glossaries))
	for lang := range d.glossaries {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Add registers g, replacing an existing glossary for the same language.
func (d *Dictionary) Add(g Glossary) error {
	lang := normalizeLanguage(g.Language)
	if lang == "" {
		return errors.New("translate: glossary language is required")
	}
	compiled := compiledGlossary{confidence: g.Confidence}
	if compiled.confidence <= 0 {
		compiled.confidence = DefaultConfidence
	}
	for idx, term := range g.Terms {
		from := strings.TrimSpace(term.From)
		if from == "" {
			return fmt.Errorf("translate: glossary %s: term %d has no source text", lang, idx)
		}
		compiled.terms = append(compiled.terms, compiledTerm{
			pattern: regexp.MustCompile("(?i)" + regexp.QuoteMeta(from)),
			to:      term.To,
		})
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.glossaries[lang] = compiled
	return nil
}

// Load decodes one YAML glossary from r and registers it.
func (d *Dictionary) Load(r io.Reader) error {
	g, err := LoadGlossary(r)
	if err != nil {
		return err
	}
	return d.Add(g)
}

// LoadFS registers every glossary file in fsys matching pattern.
func (d *Dictionary) LoadFS(fsys fs.FS, pattern string) error {
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return fmt.Errorf("translate: glob %s: %w", pattern, err)
	}
	sort.Strings(matches)
	for _, match := range matches {
		file, err := fsys.Open(match)
		if err != nil {
			return fmt.Errorf("translate: open %s: %w", match, err)
		}
		loadErr := d.Load(file)
		file.Close()
		if loadErr != nil {
			return fmt.Errorf("translate: %s: %w", match, loadErr)
		}
	}
	return nil
}

// Translate applies the glossary of lang to text. Languages without a
// glossary return the text unchanged with zero confidence.
func (d *Dictionary) Translate(ctx context.Context, text, lang string) (Result, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
	}
	lang = normalizeLanguage(lang)
	if lang == "" {
		lang = DefaultLanguage
	}
	result := Result{OriginalText: text, TranslatedText: text, Language: lang}

	d.mu.RLock()
	glossary, ok := d.glossaries[lang]
	d.mu.RUnlock()
	if !ok {
		return result, nil
	}

	translated := text
	for _, term := range glossary.terms {
		translated = term.pattern.ReplaceAllLiteralString(translated, term.to)
	}
	result.TranslatedText = translated
	result.Confidence = glossary.confidence
	return result, nil
}

// LoadGlossary decodes a YAML glossary document.
func LoadGlossary(r io.Reader) (Glossary, error) {
	if r == nil {
		return Glossary{}, errors.New("translate: glossary reader is required")
	}
	var g Glossary
	if err := yaml.NewDecoder(r).Decode(&g); err != nil {
		return Glossary{}, fmt.Errorf("translate: decode glossary: %w", err)
	}
	return g, nil
}

func normalizeLanguage(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}
