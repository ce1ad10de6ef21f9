package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-expatform/pkg/model"
	"github.com/goliatone/go-expatform/pkg/render"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	defaults     []string
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
	err          error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.defaults = append(s.defaults, cfg.Default)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func floatPtr(v float64) *float64 { return &v }

func sampleDocument() model.Document {
	return model.Document{
		ID:    "form-1",
		Title: "Anmeldung",
		Fields: []model.Field{
			{ID: "field_0", Type: model.FieldTypeText, Label: "Name", Required: true},
			{ID: "field_1", Type: model.FieldTypeEmail, Label: "Email",
				Validation: &model.Validation{Pattern: model.EmailPattern, Message: "Bitte geben Sie eine gültige E-Mail-Adresse ein"}},
			{ID: "field_2", Type: model.FieldTypeNumber, Label: "Kinder", Validation: &model.Validation{Min: floatPtr(0)}},
			{ID: "field_3", Type: model.FieldTypeCheckbox, Label: "Einverstanden"},
			{ID: "field_4", Type: model.FieldTypeRadio, Label: "Gender", Options: []string{"Männlich", "Weiblich", "Divers"}},
			{ID: "field_5", Type: model.FieldTypeTextarea, Label: "Bemerkungen"},
		},
	}
}

func TestRender_ValidatesAndRetries(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "Anna", "kein-email", "anna@example.ch", "-1", "2,5"},
		confirm:   []bool{true},
		selectIdx: []int{1},
		textAreas: []string{"  "},
	}
	r := New(WithPromptDriver(driver))

	out, err := r.Render(context.Background(), sampleDocument(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `{"field_0":"Anna","field_1":"anna@example.ch","field_2":2.5,"field_3":true,"field_4":"Weiblich"}`
	if string(out) != want {
		t.Fatalf("unexpected output\nwant: %s\n got: %s", want, out)
	}

	wantInfo := []string{
		"Anmeldung",
		"Invalid Name: Required",
		"Invalid Email: Bitte geben Sie eine gültige E-Mail-Adresse ein",
		"Invalid Kinder: Number must be greater than or equal to 0",
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
	if r.ContentType() != "application/json" || r.Name() != "tui" {
		t.Fatalf("unexpected renderer metadata")
	}
}

func TestRender_PrefillAndErrors(t *testing.T) {
	doc := model.Document{Fields: []model.Field{
		{ID: "field_0", Type: model.FieldTypeText, Label: "Vorname", TranslatedText: "First name", Required: true},
		{ID: "field_1", Type: model.FieldTypeNumber, Label: "Alter"},
	}}
	driver := &stubDriver{inputs: []string{"Anna", "abc", "31"}}
	r := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))

	out, err := r.Render(context.Background(), doc, render.RenderOptions{
		Values:     map[string]any{"field_0": "Ana"},
		Errors:     map[string][]string{"field_0": {"Bitte prüfen"}},
		FormErrors: []string{"Formular unvollständig"},
		Translated: true,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "field_0=Anna\nfield_1=31\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if diff := cmp.Diff([]string{"Ana", "", ""}, driver.defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	wantInfo := []string{
		"! Formular unvollständig",
		"Invalid First name: Bitte prüfen",
		"Invalid Alter: Expected number, received string",
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_MaxAttempts(t *testing.T) {
	doc := model.Document{Fields: []model.Field{{ID: "field_0", Type: model.FieldTypeText, Label: "Name", Required: true}}}
	driver := &stubDriver{inputs: []string{"", ""}}
	r := New(WithPromptDriver(driver), WithMaxAttempts(2))

	_, err := r.Render(context.Background(), doc, render.RenderOptions{})
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestRender_Aborted(t *testing.T) {
	driver := &stubDriver{err: ErrAborted}
	r := New(WithPromptDriver(driver))
	if _, err := r.Render(context.Background(), sampleDocument(), render.RenderOptions{}); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestRender_FormOutputAndTransformer(t *testing.T) {
	doc := model.Document{Fields: []model.Field{
		{ID: "field_0", Type: model.FieldTypeSelect, Label: "Sprache", Options: []string{"Deutsch", "Français"}, Required: true},
	}}
	driver := &stubDriver{selectIdx: []int{-1, 1}}
	r := New(
		WithPromptDriver(driver),
		WithOutputFormat(OutputFormatFormURLEncoded),
		WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
			values["lang"] = "fr"
			return values, nil
		}),
	)

	out, err := r.Render(context.Background(), doc, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "field_0=Fran%C3%A7ais&lang=fr" {
		t.Fatalf("unexpected output %q", out)
	}
	if r.ContentType() != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}

func TestRender_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(WithPromptDriver(&stubDriver{})).Render(ctx, sampleDocument(), render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
