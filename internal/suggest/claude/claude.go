package claude

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/groupr/internal/suggest"
)

// maxTokens leaves room for a twelve-word answer.
const maxTokens = 64

type Suggester struct {
	client *anthropic.Client
	model  string
}

// New builds a Claude backend. opts are passed to the client, e.g.
// anthropic.WithBaseURL for tests.
func New(apiKey, model string, opts ...anthropic.ClientOption) *Suggester {
	return &Suggester{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (s *Suggester) Suggest(ctx context.Context, req suggest.Request) (string, error) {
	resp, err := s.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(s.model),
		System:    suggest.SystemPrompt,
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(suggest.Prompt(req)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	for _, c := range resp.Content {
		if c.Type == anthropic.MessagesContentTypeText && c.Text != nil {
			return suggest.CleanDescription(*c.Text), nil
		}
	}
	return "", nil
}
