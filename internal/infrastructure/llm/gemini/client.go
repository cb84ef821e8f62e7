package gemini

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

const temperature = 0.1

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	VisionModel string
	Timeout     time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-pro"
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = "gemini-1.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) Name() string { return "gemini" }

// Complete flattens system prompt and history into a single role-prefixed
// prompt; the generateContent API has no separate system channel on this tier.
func (c *Client) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	var prompt strings.Builder
	if req.SystemPrompt != "" {
		prompt.WriteString("system: " + req.SystemPrompt + "\n\n")
	}
	for _, turn := range req.History {
		prompt.WriteString(turn.Role + ": " + turn.Content + "\n\n")
	}
	prompt.WriteString("user: " + req.UserMessage)

	return c.generate(ctx, "complete", c.cfg.Model, map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt.String()}}},
		},
		"generationConfig": map[string]any{
			"temperature":     temperature,
			"maxOutputTokens": req.MaxTokens,
		},
	})
}

func (c *Client) CompleteWithImage(ctx context.Context, systemPrompt, userMessage string, image []byte) (string, error) {
	return c.generate(ctx, "complete_with_image", c.cfg.VisionModel, map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": systemPrompt + "\n\n" + userMessage},
					{
						"inline_data": map[string]any{
							"mime_type": "image/jpeg",
							"data":      base64.StdEncoding.EncodeToString(image),
						},
					},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     temperature,
			"maxOutputTokens": 1500,
		},
	})
}

func (c *Client) generate(ctx context.Context, operation, model string, payload map[string]any) (string, error) {
	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	path := fmt.Sprintf("/models/%s:generateContent", model)
	if err := c.postJSON(ctx, path, payload, &response, operation); err != nil {
		return "", err
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini %s: no candidates in response", operation)
	}
	return strings.TrimSpace(response.Candidates[0].Content.Parts[0].Text), nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + path + "?key=" + c.cfg.APIKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gemini %s request: %w", operation, err)
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
