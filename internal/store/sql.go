package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-expatform/internal/model"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS forms (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		document TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		form_id TEXT NOT NULL REFERENCES forms(id),
		payload TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS submissions_form_id_idx ON submissions (form_id)`,
}

// SQLStore implements Store over database/sql. Documents and submission
// values are stored as JSON text so the same tables work on SQLite and
// Postgres.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	opts    options
	release func()
}

var _ Store = (*SQLStore)(nil)

// New wraps an existing SQLite connection. Callers own migration through
// Migrate.
func New(db *sql.DB, opts ...Option) *SQLStore {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return newSQLStore(db, dialectSQLite, o, nil)
}

func newSQLStore(db *sql.DB, d dialect, o options, release func()) *SQLStore {
	return &SQLStore{db: db, dialect: d, opts: o, release: release}
}

// DB exposes the underlying handle.
func (s *SQLStore) DB() *sql.DB { return s.db }

// Migrate creates the tables when missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for idx, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: migration %d: %w", idx, err)
		}
	}
	s.opts.logger.Debug("store migrated", zap.Int("statements", len(migrations)))
	return nil
}

// Close releases the database handle.
func (s *SQLStore) Close() error {
	err := s.db.Close()
	if s.release != nil {
		s.release()
	}
	return err
}

// SaveForm inserts or updates a document. A missing id is generated and the
// creation time of an existing document is preserved.
func (s *SQLStore) SaveForm(ctx context.Context, doc model.Document) (model.Document, error) {
	now := s.opts.now()
	doc.Fields = model.CloneFields(doc.Fields)
	if doc.Fields == nil {
		doc.Fields = []model.Field{}
	}

	if doc.ID == "" {
		doc.ID = s.opts.newID()
		doc.CreatedAt = now
	} else {
		existing, err := s.LoadForm(ctx, doc.ID)
		switch {
		case err == nil:
			doc.CreatedAt = existing.CreatedAt
		case errors.Is(err, ErrNotFound):
			doc.CreatedAt = now
		default:
			return model.Document{}, err
		}
	}
	doc.UpdatedAt = now

	payload, err := json.Marshal(doc)
	if err != nil {
		return model.Document{}, fmt.Errorf("store: encode form: %w", err)
	}

	query := s.rebind(`INSERT INTO forms (id, title, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			document = excluded.document,
			updated_at = excluded.updated_at`)
	if _, err := s.db.ExecContext(ctx, query, doc.ID, doc.Title, string(payload), formatTime(doc.CreatedAt), formatTime(doc.UpdatedAt)); err != nil {
		return model.Document{}, fmt.Errorf("store: save form %s: %w", doc.ID, err)
	}
	s.opts.logger.Debug("form saved", zap.String("id", doc.ID), zap.Int("fields", len(doc.Fields)))
	return doc, nil
}

// LoadForm returns the document with id or ErrNotFound.
func (s *SQLStore) LoadForm(ctx context.Context, id string) (model.Document, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT document FROM forms WHERE id = ?`), id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Document{}, fmt.Errorf("%w: form %s", ErrNotFound, id)
	}
	if err != nil {
		return model.Document{}, fmt.Errorf("store: load form %s: %w", id, err)
	}

	var doc model.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return model.Document{}, fmt.Errorf("store: decode form %s: %w", id, err)
	}
	return doc, nil
}

// SaveSubmission stores answers for an existing form.
func (s *SQLStore) SaveSubmission(ctx context.Context, sub model.Submission) (model.Submission, error) {
	if sub.FormID == "" {
		return model.Submission{}, errors.New("store: submission form id is required")
	}
	if _, err := s.LoadForm(ctx, sub.FormID); err != nil {
		return model.Submission{}, err
	}
	if sub.ID == "" {
		sub.ID = s.opts.newID()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = s.opts.now()
	}
	if sub.Values == nil {
		sub.Values = map[string]any{}
	}

	payload, err := json.Marshal(sub)
	if err != nil {
		return model.Submission{}, fmt.Errorf("store: encode submission: %w", err)
	}
	query := s.rebind(`INSERT INTO submissions (id, form_id, payload, created_at) VALUES (?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, sub.ID, sub.FormID, string(payload), formatTime(sub.CreatedAt)); err != nil {
		return model.Submission{}, fmt.Errorf("store: save submission %s: %w", sub.ID, err)
	}
	s.opts.logger.Debug("submission saved", zap.String("id", sub.ID), zap.String("form_id", sub.FormID))
	return sub, nil
}

// LoadSubmission returns the submission with id or ErrNotFound.
func (s *SQLStore) LoadSubmission(ctx context.Context, id string) (model.Submission, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT payload FROM submissions WHERE id = ?`), id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Submission{}, fmt.Errorf("%w: submission %s", ErrNotFound, id)
	}
	if err != nil {
		return model.Submission{}, fmt.Errorf("store: load submission %s: %w", id, err)
	}

	var sub model.Submission
	if err := json.Unmarshal([]byte(payload), &sub); err != nil {
		return model.Submission{}, fmt.Errorf("store: decode submission %s: %w", id, err)
	}
	return sub, nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
