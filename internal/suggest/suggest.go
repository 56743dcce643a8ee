// Package suggest writes short descriptions for objects that were added
// without one.
package suggest

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/vbonduro/groupr/internal/domain"
)

// MaxDescriptionLen caps suggested descriptions, in runes.
const MaxDescriptionLen = 140

// SystemPrompt is shared by all backends.
const SystemPrompt = `You write one-line descriptions for entries in a rating group.
Reply with the description only: no quotes, no label, at most 12 words.
If you do not recognise the entry, reply with an empty line.`

type Request struct {
	GroupName string
	Name      string
	ItemType  domain.ItemType
	Category  string
	LinkURL   string
}

type Suggester interface {
	Suggest(ctx context.Context, req Request) (string, error)
}

// Prompt renders req as the user message sent to a backend.
func Prompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Group: %s\n", req.GroupName)
	fmt.Fprintf(&b, "Entry: %s\n", req.Name)
	if req.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", req.Category)
	}
	if req.ItemType == domain.ItemTypeLink && req.LinkURL != "" {
		fmt.Fprintf(&b, "Link: %s\n", req.LinkURL)
	}
	return b.String()
}

// CleanDescription reduces a raw model reply to a single trimmed line.
func CleanDescription(raw string) string {
	var line string
	for _, l := range strings.Split(raw, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}

	for _, prefix := range []string{"Description:", "description:"} {
		line = strings.TrimSpace(strings.TrimPrefix(line, prefix))
	}
	line = strings.Trim(line, `"'`)

	if utf8.RuneCountInString(line) > MaxDescriptionLen {
		r := []rune(line)
		line = strings.TrimSpace(string(r[:MaxDescriptionLen]))
	}
	return line
}

// Throttled limits how often the wrapped backend is called.
type Throttled struct {
	next    Suggester
	limiter *rate.Limiter
}

// NewThrottled allows rps calls per second with the given burst. Non-positive
// values fall back to one call per second.
func NewThrottled(next Suggester, rps float64, burst int) *Throttled {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Throttled{next: next, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (t *Throttled) Suggest(ctx context.Context, req Request) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	return t.next.Suggest(ctx, req)
}
