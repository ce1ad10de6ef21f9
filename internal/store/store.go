package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-expatform/internal/model"
)

// ErrNotFound is returned for unknown form or submission ids.
var ErrNotFound = errors.New("store: not found")

// Store persists forms and their submissions.
type Store interface {
	SaveForm(ctx context.Context, doc model.Document) (model.Document, error)
	LoadForm(ctx context.Context, id string) (model.Document, error)
	SaveSubmission(ctx context.Context, sub model.Submission) (model.Submission, error)
	LoadSubmission(ctx context.Context, id string) (model.Submission, error)
	Close() error
}

// Option configures a SQL store.
type Option func(*options)

type options struct {
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func defaultOptions() options {
	return options{
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// WithLogger sets the logger used for connection and migration events.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides id generation (UUID v4 by default).
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		if newID != nil {
			o.newID = newID
		}
	}
}
