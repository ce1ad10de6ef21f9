package translate_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-expatform/pkg/translate"
)

func newDictionary(t *testing.T, options ...translate.Option) *translate.Dictionary {
	t.Helper()
	dict, err := translate.NewDictionary(options...)
	if err != nil {
		t.Fatalf("new dictionary: %v", err)
	}
	return dict
}

func TestDictionary_GermanGlossary(t *testing.T) {
	dict := newDictionary(t)

	tests := []struct {
		in   string
		want string
	}{
		{in: "Please fill in your email address and phone number", want: "Bitte ausfüllen in your E-Mail Adresse and Telefon number"},
		{in: "SIGNATURE / Date", want: "Unterschrift / Datum"},
		{in: "Submit or Cancel", want: "Absenden or Abbrechen"},
		{in: "Wohnort", want: "Wohnort"},
		{in: "Vorname", want: "VorName"},
	}
	for _, tt := range tests {
		got, err := dict.Translate(context.Background(), tt.in, "de")
		if err != nil {
			t.Fatalf("translate %q: %v", tt.in, err)
		}
		want := translate.Result{OriginalText: tt.in, TranslatedText: tt.want, Language: "de", Confidence: 0.85}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("translate %q mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestDictionary_DefaultLanguage(t *testing.T) {
	got, err := newDictionary(t).Translate(context.Background(), "Save", "")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got.Language != "de" || got.TranslatedText != "Speichern" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestDictionary_UnknownLanguage(t *testing.T) {
	got, err := newDictionary(t).Translate(context.Background(), "Name", "fr")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	want := translate.Result{OriginalText: "Name", TranslatedText: "Name", Language: "fr"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDictionary_LoadGlossaryFS(t *testing.T) {
	fsys := fstest.MapFS{
		"fr.yaml": {Data: []byte("language: FR\nconfidence: 0.5\nterms:\n  - {from: name, to: Nom}\n  - {from: date, to: Date}\n")},
	}
	dict := newDictionary(t, translate.WithGlossaryFS(fsys, "*.yaml"))

	if diff := cmp.Diff([]string{"de", "fr"}, dict.Languages()); diff != "" {
		t.Fatalf("languages mismatch (-want +got):\n%s", diff)
	}
	got, err := dict.Translate(context.Background(), "Name and date", "fr")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got.TranslatedText != "Nom and Date" || got.Confidence != 0.5 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestDictionary_RejectsEmptyTerm(t *testing.T) {
	_, err := translate.NewDictionary(translate.WithGlossary(translate.Glossary{
		Language: "it",
		Terms:    []translate.Term{{From: "  ", To: "x"}},
	}))
	if err == nil || !strings.Contains(err.Error(), "no source text") {
		t.Fatalf("expected empty term error, got %v", err)
	}
}

func TestDictionary_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newDictionary(t).Translate(ctx, "Name", "de"); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestDictionary_ConcurrentUse(t *testing.T) {
	dict := newDictionary(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := dict.Translate(context.Background(), "Print and download", "de"); err != nil {
				t.Errorf("translate: %v", err)
			}
		}()
	}
	wg.Wait()
}
