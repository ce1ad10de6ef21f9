package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-expatform/components/formbuilder"
	"github.com/goliatone/go-expatform/components/schemas"
	"github.com/goliatone/go-expatform/internal/config"
	"github.com/goliatone/go-expatform/internal/store"
	"github.com/goliatone/go-expatform/pkg/extract"
	"github.com/goliatone/go-expatform/pkg/model"
	"github.com/goliatone/go-expatform/pkg/schema"
	"github.com/goliatone/go-expatform/pkg/translate"
)

type app struct {
	handler http.Handler
	store   *store.SQLStore
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	analyzer, err := buildAnalyzer(cfg.Classifier)
	if err != nil {
		return nil, err
	}
	translator, err := buildTranslator(cfg.Translate)
	if err != nil {
		return nil, err
	}
	catalog, err := schema.Default()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	fetcher := extract.NewFetcher(cfg.Extract.FetchTimeout)
	if cfg.Extract.MaxBytes > 0 {
		fetcher.MaxBytes = cfg.Extract.MaxBytes
	}

	mux := http.NewServeMux()
	if _, err := formbuilder.RegisterRoutes(mux, cfg.Server.BasePath,
		formbuilder.WithLogger(logger),
		formbuilder.WithAnalyzer(analyzer),
		formbuilder.WithTranslator(translator),
		formbuilder.WithFetcher(fetcher),
		formbuilder.WithCatalog(catalog),
		formbuilder.WithStore(st),
		formbuilder.WithDefaultLanguage(cfg.Translate.DefaultLanguage),
		formbuilder.WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
		formbuilder.WithPublicURL(cfg.Server.PublicURL),
	); err != nil {
		_ = st.Close()
		return nil, err
	}
	if _, err := schemas.RegisterRoutes(mux, schemas.DefaultBasePath,
		schemas.WithCatalog(catalog),
		schemas.WithLogger(logger),
	); err != nil {
		_ = st.Close()
		return nil, err
	}
	mux.Handle("GET /healthz", healthHandler(st))

	return &app{handler: logRequests(logger, mux), store: st}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func buildAnalyzer(cfg config.Classifier) (model.Analyzer, error) {
	var opts []model.AnalyzerOption
	if cfg.RulesFile != "" {
		rules, err := loadRules(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, model.WithRules(rules))
	}
	if cfg.ExtraRulesFile != "" {
		rules, err := loadRules(cfg.ExtraRulesFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, model.WithExtraRules(rules...))
	}
	return model.NewAnalyzer(opts...), nil
}

func loadRules(path string) ([]model.Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules %s: %w", path, err)
	}
	defer f.Close()
	return model.LoadRules(f)
}

func buildTranslator(cfg config.Translate) (translate.Translator, error) {
	var opts []translate.Option
	if cfg.GlossaryDir != "" {
		opts = append(opts, translate.WithGlossaryFS(os.DirFS(cfg.GlossaryDir), "*.yaml"))
	}
	return translate.NewDictionary(opts...)
}

func healthHandler(st *store.SQLStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := st.DB().PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}` + "\n"))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
