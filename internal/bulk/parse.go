// Package bulk turns freeform pasted text (or a spreadsheet) into object
// records ready to be added to a group.
package bulk

import (
	"strings"

	"github.com/vbonduro/groupr/internal/domain"
)

// ParsedItem is the preview form of one input line.
type ParsedItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	LinkURL     string `json:"linkUrl,omitempty"`
}

// Parse reads one item per line. Fields are separated by ',' or ';'. For link
// items the fields are url, name, image; for text and user items they are
// name, description, image. Only the first field is required. Blank lines and
// lines made only of delimiters produce no item.
func Parse(text string, kind domain.ItemType) []ParsedItem {
	items, _ := ParseReport(text, kind)
	return items
}

// ParseReport is Parse that also returns the 1-based numbers of non-blank
// lines that were dropped because they held no fields.
func ParseReport(text string, kind domain.ItemType) ([]ParsedItem, []int) {
	items := make([]ParsedItem, 0)
	var skipped []int

	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		item, ok := fromFields(splitFields(line), kind)
		if !ok {
			skipped = append(skipped, i+1)
			continue
		}
		items = append(items, item)
	}

	return items, skipped
}

func splitFields(line string) []string {
	raw := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ';' })
	fields := make([]string, 0, len(raw))
	for _, f := range raw {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// fromFields maps positional fields onto an item. It is shared by the text
// and spreadsheet readers.
func fromFields(fields []string, kind domain.ItemType) (ParsedItem, bool) {
	if len(fields) == 0 {
		return ParsedItem{}, false
	}

	if kind == domain.ItemTypeLink {
		return ParsedItem{
			LinkURL: fields[0],
			Name:    fieldOr(fields, 1, fields[0]),
			Image:   fieldOr(fields, 2, ""),
		}, true
	}

	return ParsedItem{
		Name:        fields[0],
		Description: fieldOr(fields, 1, ""),
		Image:       fieldOr(fields, 2, ""),
	}, true
}

func fieldOr(fields []string, i int, fallback string) string {
	if i < len(fields) {
		return fields[i]
	}
	return fallback
}
