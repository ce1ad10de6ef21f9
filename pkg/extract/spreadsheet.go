package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Spreadsheet extracts XLSX workbooks. Each sheet is one page and each row
// one line made of its non-empty cells joined by a space.
type Spreadsheet struct{}

// Extract implements Extractor.
func (Spreadsheet) Extract(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(in.Data))
	if err != nil {
		return Result{}, fmt.Errorf("extract: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	lines := make([]string, 0)
	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return Result{}, fmt.Errorf("extract: read sheet %s: %w", sheet, err)
		}
		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				if trimmed := strings.TrimSpace(cell); trimmed != "" {
					cells = append(cells, trimmed)
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, " "))
			}
		}
	}

	return Result{Text: strings.Join(lines, "\n"), PageCount: len(sheets)}, nil
}
