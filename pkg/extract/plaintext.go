package extract

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	byteOrderMark = "\ufeff"
	formFeed      = "\f"
)

// PlainText extracts UTF-8 text. Form feed characters separate pages and are
// replaced by line breaks in the result.
type PlainText struct{}

// Extract implements Extractor.
func (PlainText) Extract(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if !utf8.Valid(in.Data) {
		return Result{}, errors.New("extract: text is not valid UTF-8")
	}
	return TextResult(string(in.Data)), nil
}

// TextResult builds a Result from raw text, counting form feed separated
// pages. Blank text has zero pages.
func TextResult(text string) Result {
	text = strings.TrimPrefix(text, byteOrderMark)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(strings.ReplaceAll(text, formFeed, "")) == "" {
		return Result{}
	}

	trimmed := strings.TrimRight(text, formFeed+"\n\r\t ")
	pages := strings.Count(trimmed, formFeed) + 1
	return Result{
		Text:      strings.ReplaceAll(trimmed, formFeed, "\n"),
		PageCount: pages,
	}
}
