package bulk

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vbonduro/groupr/internal/domain"
)

// ErrEmptyWorkbook is returned when a workbook has no sheets.
var ErrEmptyWorkbook = errors.New("workbook has no sheets")

// ParseSpreadsheet reads the first sheet of an .xlsx workbook. Each row is one
// item and its cells are read in the same order as the fields of a text line.
// A leading header row ("name" or "url" in the first column) is ignored, and
// rows without a non-blank cell are dropped like blank text lines.
func ParseSpreadsheet(r io.Reader, kind domain.ItemType) ([]ParsedItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("failed to close workbook", "error", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	items := make([]ParsedItem, 0, len(rows))
	for i, row := range rows {
		fields := trimCells(row)
		if i == 0 && isHeader(fields) {
			continue
		}
		if item, ok := fromFields(fields, kind); ok {
			items = append(items, item)
		}
	}

	return items, nil
}

func trimCells(row []string) []string {
	fields := make([]string, 0, len(row))
	for _, c := range row {
		if c = strings.TrimSpace(c); c != "" {
			fields = append(fields, c)
		}
	}
	return fields
}

func isHeader(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	switch strings.ToLower(fields[0]) {
	case "name", "url":
		return true
	}
	return false
}
