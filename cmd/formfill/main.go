// Command formfill analyzes a document and renders the inferred form as
// JSON, HTML or an interactive terminal prompt.
//
//	formfill -sample -renderer html -output form.html
//	formfill -input antrag.xlsx -translate -lang de
//	formfill -input antrag.txt -renderer tui -format pretty
//	formfill -input antrag.txt -values answers.json -renderer html
//	formfill -input antrag.txt -preset overrides.json
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-expatform/pkg/extract"
	"github.com/goliatone/go-expatform/pkg/model"
	"github.com/goliatone/go-expatform/pkg/orchestrator"
	"github.com/goliatone/go-expatform/pkg/render"
	"github.com/goliatone/go-expatform/pkg/renderers/html"
	"github.com/goliatone/go-expatform/pkg/renderers/jsonout"
	"github.com/goliatone/go-expatform/pkg/renderers/tui"
	"github.com/goliatone/go-expatform/pkg/schema"
	"github.com/goliatone/go-expatform/pkg/translate"
)

// errInvalidValues marks a run whose -values file failed validation. The
// form is still rendered with inline errors.
var errInvalidValues = errors.New("answers failed validation")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := &cli{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := c.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "formfill:", err)
		os.Exit(1)
	}
}

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	// driver replaces the survey prompt driver of the tui renderer.
	driver tui.PromptDriver
}

type flags struct {
	input     string
	sample    bool
	title     string
	translate bool
	lang      string
	renderer  string
	format    string
	values    string
	rules     string
	preset    string
	output    string
}

func (c *cli) parse(args []string) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("formfill", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.StringVar(&f.input, "input", "", "document to analyze (.txt or .xlsx, - for stdin)")
	fs.BoolVar(&f.sample, "sample", false, "analyze the built-in sample application form")
	fs.StringVar(&f.title, "title", "", "form title (defaults to the file name)")
	fs.BoolVar(&f.translate, "translate", false, "translate field labels")
	fs.StringVar(&f.lang, "lang", translate.DefaultLanguage, "target language for -translate")
	fs.StringVar(&f.renderer, "renderer", "json", "renderer: json, html or tui")
	fs.StringVar(&f.format, "format", string(tui.OutputFormatJSON), "tui output format: json, form or pretty")
	fs.StringVar(&f.values, "values", "", "JSON file with answers keyed by field id")
	fs.StringVar(&f.rules, "rules", "", "YAML classifier rules evaluated before the built-in table")
	fs.StringVar(&f.preset, "preset", "", "JSON overrides applied to the inferred fields")
	fs.StringVar(&f.output, "output", "", "output file (stdout if empty)")
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	if f.input == "" && !f.sample {
		return flags{}, errors.New("-input or -sample is required")
	}
	return f, nil
}

func (c *cli) run(ctx context.Context, args []string) error {
	f, err := c.parse(args)
	if err != nil {
		return err
	}

	req, err := c.request(ctx, f)
	if err != nil {
		return err
	}
	orch, err := c.orchestrator(f)
	if err != nil {
		return err
	}

	doc, err := orch.Document(ctx, req)
	if err != nil {
		return err
	}
	opts := render.RenderOptions{Translated: f.translate}

	var issues []schema.Issue
	if f.values != "" {
		if issues, err = applyValues(f.values, doc, &opts); err != nil {
			return err
		}
	}

	out, err := orch.Render(ctx, doc, f.renderer, opts)
	if err != nil {
		return err
	}

	if err := c.write(f.output, out); err != nil {
		return err
	}
	if len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintln(c.stderr, issue.String())
		}
		return errInvalidValues
	}
	return nil
}

// request resolves the document to analyze into a pipeline request.
func (c *cli) request(ctx context.Context, f flags) (orchestrator.Request, error) {
	req := orchestrator.Request{Title: f.title, Translate: f.translate, Language: f.lang}
	if f.sample {
		result, err := extract.Sample{}.Extract(ctx, extract.Input{})
		if err != nil {
			return orchestrator.Request{}, err
		}
		req.Text, req.PageCount = result.Text, result.PageCount
		req.Title = firstNonEmpty(f.title, "Application Form")
		return req, nil
	}

	var (
		data []byte
		err  error
	)
	if f.input == "-" {
		data, err = io.ReadAll(c.stdin)
	} else {
		data, err = os.ReadFile(f.input)
	}
	if err != nil {
		return orchestrator.Request{}, fmt.Errorf("read input: %w", err)
	}

	name := filepath.Base(f.input)
	if f.input == "-" {
		name = "stdin.txt"
	}
	req.Input = &extract.Input{Name: name, Data: data}
	return req, nil
}

func (c *cli) orchestrator(f flags) (*orchestrator.Orchestrator, error) {
	analyzer, err := newAnalyzer(f.rules)
	if err != nil {
		return nil, err
	}
	registry, err := c.renderers(f)
	if err != nil {
		return nil, err
	}
	options := []orchestrator.Option{
		orchestrator.WithAnalyzer(analyzer),
		orchestrator.WithRegistry(registry),
	}
	if f.preset != "" {
		preset, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS(filepath.Dir(f.preset)), filepath.Base(f.preset))
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithTransformer(preset))
	}
	return orchestrator.New(options...), nil
}

func newAnalyzer(rulesPath string) (model.Analyzer, error) {
	if rulesPath == "" {
		return model.NewAnalyzer(), nil
	}
	file, err := os.Open(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("open rules: %w", err)
	}
	defer file.Close()
	rules, err := model.LoadRules(file)
	if err != nil {
		return nil, err
	}
	return model.NewAnalyzer(model.WithExtraRules(rules...)), nil
}

// applyValues loads answers and validates them. Validation issues are
// returned and mapped onto opts so renderers show them inline.
func applyValues(path string, doc model.Document, opts *render.RenderOptions) ([]schema.Issue, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open values: %w", err)
	}
	defer file.Close()

	raw, err := schema.DecodeJSON(schema.Schema{Name: model.InputSchemaName, Open: true}, file)
	if err != nil {
		return nil, fmt.Errorf("decode values: %w", err)
	}
	cleaned, err := model.ValidateInputs(doc.Fields, raw)
	if err != nil {
		if !errors.Is(err, schema.ErrValidation) {
			return nil, err
		}
		issues := schema.IssuesOf(err)
		opts.Values = raw
		render.MapIssues(doc, issues).Apply(opts)
		return issues, nil
	}
	opts.Values = cleaned
	return nil, nil
}

func (c *cli) renderers(f flags) (*render.Registry, error) {
	registry := render.NewRegistry()
	if err := registry.Register(jsonout.New(jsonout.WithIndent("  "))); err != nil {
		return nil, err
	}
	htmlRenderer, err := html.New()
	if err != nil {
		return nil, err
	}
	if err := registry.Register(htmlRenderer); err != nil {
		return nil, err
	}

	driver := c.driver
	if driver == nil {
		driver = tui.NewSurveyDriver(c.stderr)
	}
	tuiRenderer := tui.New(
		tui.WithPromptDriver(driver),
		tui.WithOutputFormat(tui.OutputFormat(f.format)),
		tui.WithMaxAttempts(3),
	)
	if err := registry.Register(tuiRenderer); err != nil {
		return nil, err
	}
	return registry, nil
}

func (c *cli) write(path string, out []byte) error {
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	if path == "" {
		_, err := c.stdout.Write(out)
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(c.stderr, "Form written to %s\n", path)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
