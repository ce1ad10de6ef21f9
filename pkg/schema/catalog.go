package schema

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog/*.yaml
var catalogFS embed.FS

// ErrUnknownSchema is returned when a catalog lookup misses.
var ErrUnknownSchema = errors.New("schema: unknown schema")

// Catalog stores schemas by name. It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{schemas: make(map[string]Schema)}
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog built from the embedded YAML declarations. The
// catalog is parsed once and shared.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		catalog := NewCatalog()
		if err := catalog.LoadFS(catalogFS, "catalog/*.yaml"); err != nil {
			defaultErr = err
			return
		}
		defaultCatalog = catalog
	})
	return defaultCatalog, defaultErr
}

// MustDefault panics if the embedded catalog cannot be loaded.
func MustDefault() *Catalog {
	catalog, err := Default()
	if err != nil {
		panic(err)
	}
	return catalog
}

// Register adds a schema. Duplicate names and malformed declarations return
// an error.
func (c *Catalog) Register(s Schema) error {
	if s.Name == "" {
		return fmt.Errorf("schema: schema name is required")
	}
	if err := s.Check(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.schemas[s.Name]; exists {
		return fmt.Errorf("schema: schema %q already registered", s.Name)
	}
	c.schemas[s.Name] = s
	return nil
}

// Get retrieves a schema by name.
func (c *Catalog) Get(name string) (Schema, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.schemas[name]
	if !ok {
		return Schema{}, fmt.Errorf("%w %q", ErrUnknownSchema, name)
	}
	return s, nil
}

// Names returns the sorted schema names.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.schemas))
	for name := range c.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate looks up the named schema and validates payload against it.
func (c *Catalog) Validate(name string, payload map[string]any) (map[string]any, error) {
	s, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	return Validate(s, payload)
}

type catalogDocument struct {
	Schemas map[string]Schema `yaml:"schemas"`
}

// Load parses one YAML document of the form
//
//	schemas:
//	  task_action:
//	    fields:
//	      taskId: {kind: uuid, required: true}
//
// and registers every schema in it.
func (c *Catalog) Load(r io.Reader) error {
	var doc catalogDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("schema: decode catalog: %w", err)
	}

	names := make([]string, 0, len(doc.Schemas))
	for name := range doc.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := doc.Schemas[name]
		s.Name = name
		if err := c.Register(s); err != nil {
			return err
		}
	}
	return nil
}

// LoadFS loads every file in fsys matching pattern (path.Match syntax).
func (c *Catalog) LoadFS(fsys fs.FS, pattern string) error {
	if fsys == nil {
		return errors.New("schema: filesystem is required")
	}
	if pattern == "" {
		pattern = "*.yaml"
	}
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return fmt.Errorf("schema: glob %s: %w", pattern, err)
	}
	sort.Strings(matches)
	for _, match := range matches {
		file, err := fsys.Open(match)
		if err != nil {
			return fmt.Errorf("schema: open %s: %w", match, err)
		}
		loadErr := c.Load(file)
		file.Close()
		if loadErr != nil {
			return fmt.Errorf("schema: %s: %w", path.Base(match), loadErr)
		}
	}
	return nil
}
