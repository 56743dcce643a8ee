package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vbonduro/groupr/internal/suggest"
)

type Suggester struct {
	host   string
	model  string
	client *http.Client
}

func New(host, model string) *Suggester {
	return &Suggester{
		host:   host,
		model:  model,
		client: &http.Client{},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	System string `json:"system"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

func (s *Suggester) Suggest(ctx context.Context, req suggest.Request) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  s.model,
		System: suggest.SystemPrompt,
		Prompt: suggest.Prompt(req),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call ollama: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close ollama response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var body struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return suggest.CleanDescription(body.Response), nil
}
