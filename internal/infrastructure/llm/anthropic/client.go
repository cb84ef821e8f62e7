package anthropic

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/missiontoscale/quotla-api/internal/core/ports"
	"github.com/missiontoscale/quotla-api/internal/infrastructure/llm"
)

const (
	temperature = 0.1
	apiVersion  = "2023-06-01"
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Model == "" {
		cfg.Model = "claude-3-5-sonnet-20241022"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) Name() string { return "anthropic" }

// Complete sends the system prompt as the top-level system parameter; the
// messages array carries only conversation turns.
func (c *Client) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	messages := make([]map[string]any, 0, len(req.History)+1)
	for _, turn := range req.History {
		messages = append(messages, map[string]any{"role": turn.Role, "content": turn.Content})
	}
	messages = append(messages, map[string]any{"role": "user", "content": req.UserMessage})

	payload := map[string]any{
		"model":       c.cfg.Model,
		"max_tokens":  req.MaxTokens,
		"temperature": temperature,
		"messages":    messages,
	}
	if req.SystemPrompt != "" {
		payload["system"] = req.SystemPrompt
	}
	return c.send(ctx, "complete", payload)
}

func (c *Client) CompleteWithImage(ctx context.Context, systemPrompt, userMessage string, image []byte) (string, error) {
	return c.send(ctx, "complete_with_image", map[string]any{
		"model":       c.cfg.Model,
		"max_tokens":  1500,
		"temperature": temperature,
		"system":      systemPrompt,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": userMessage},
					{
						"type": "image",
						"source": map[string]any{
							"type":       "base64",
							"media_type": "image/jpeg",
							"data":       base64.StdEncoding.EncodeToString(image),
						},
					},
				},
			},
		},
	})
}

func (c *Client) send(ctx context.Context, operation string, payload map[string]any) (string, error) {
	var response struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := c.postJSON(ctx, "/v1/messages", payload, &response, operation); err != nil {
		return "", err
	}
	if len(response.Content) == 0 {
		return "", fmt.Errorf("anthropic %s: empty content in response", operation)
	}
	return strings.TrimSpace(response.Content[0].Text), nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.cfg.BaseURL, "/")+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("anthropic %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &llm.HTTPStatusError{
			Provider:   c.Name(),
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}
