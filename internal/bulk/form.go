package bulk

import (
	"context"
	"strings"

	"github.com/vbonduro/groupr/internal/domain"
)

// Examples holds the sample input shown for each item type.
var Examples = map[domain.ItemType]string{
	domain.ItemTypeText: "Apple, A popular fruit, https://example.com/apple.jpg\n" +
		"Banana, Yellow tropical fruit\n" +
		"Orange",
	domain.ItemTypeLink: "https://example.com/page1, My Page Title, https://example.com/thumb1.jpg\n" +
		"https://example.com/page2, Another Page\n" +
		"https://example.com/page3",
	domain.ItemTypeUser: "John Doe, Engineering Lead, https://example.com/john.jpg\n" +
		"Jane Smith, Product Manager\n" +
		"Bob Wilson",
}

// SubmitFunc persists a batch. It is called at most once per Submit.
type SubmitFunc func(ctx context.Context, items []Submission) error

// Input is what the user typed into the bulk add form.
type Input struct {
	Text     string
	Kind     domain.ItemType
	Category *string
}

type Form struct {
	submit SubmitFunc
}

func NewForm(submit SubmitFunc) *Form {
	return &Form{submit: submit}
}

// Preview returns the live preview for the current input. It is empty until
// both a kind and some text are present.
func (f *Form) Preview(text string, kind domain.ItemType) []ParsedItem {
	if kind == "" || strings.TrimSpace(text) == "" {
		return []ParsedItem{}
	}
	return Parse(text, kind)
}

// Submit validates the input, builds the batch and hands it to the submit
// handler. Every returned error is a *domain.FormError.
func (f *Form) Submit(ctx context.Context, in Input) ([]Submission, error) {
	if in.Kind == "" {
		return nil, &domain.FormError{Message: "Please select an item type"}
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, &domain.FormError{Message: "Please enter at least one item"}
	}

	parsed := Parse(in.Text, in.Kind)
	return f.SubmitParsed(ctx, parsed, in.Category, in.Kind)
}

// SubmitParsed is Submit for items that were already parsed, e.g. from a
// spreadsheet.
func (f *Form) SubmitParsed(ctx context.Context, parsed []ParsedItem, category *string, kind domain.ItemType) ([]Submission, error) {
	if kind == "" {
		return nil, &domain.FormError{Message: "Please select an item type"}
	}
	if len(parsed) == 0 {
		return nil, &domain.FormError{Message: "No valid items found. Check your format."}
	}

	items := BuildSubmissions(parsed, category, kind)
	if err := f.submit(ctx, items); err != nil {
		return nil, domain.NewFormError(err, "Failed to add items")
	}
	return items, nil
}
