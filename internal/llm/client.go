package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// CompletionTimeout bounds a single chat completion request. Local
	// models under load can be slow, so this is generous.
	CompletionTimeout = 120 * time.Second

	defaultMaxTokens = 2048
)

// Tool describes a function the model is forced to call. Schema is a
// JSON Schema object constraining the arguments.
type Tool struct {
	Name        string
	Description string
	Schema      map[string]any
}

// Client is a provider-agnostic chat completion client. It speaks the
// OpenAI chat format and the Anthropic messages format over raw HTTP,
// selected by the provider's API shape.
type Client struct {
	provider   string
	model      string
	apiKey     string
	cfg        ProviderConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the given provider and model. baseURL
// overrides the provider's default endpoint when non-empty (used for
// self-hosted Ollama and OpenAI-compatible gateways).
func NewClient(provider, model, apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	cfg := GetProviderConfig(provider)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout <= 0 {
		timeout = CompletionTimeout
	}
	return &Client{
		provider:   provider,
		model:      model,
		apiKey:     apiKey,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// CallTool sends a system+user prompt with a single tool the model must
// invoke, and returns the raw JSON arguments of that tool call. Errors
// are classified so callers can distinguish rate limiting from other
// provider failures.
func (c *Client) CallTool(ctx context.Context, system, user string, tool Tool) (json.RawMessage, error) {
	var (
		payload []byte
		err     error
	)
	switch c.cfg.Format {
	case APIFormatAnthropic:
		payload, err = c.anthropicPayload(system, user, tool)
	default:
		payload, err = c.openAIPayload(system, user, tool)
	}
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	url := c.cfg.BaseURL + c.cfg.ChatEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		if c.cfg.AuthHeader == "x-api-key" {
			req.Header.Set("x-api-key", c.apiKey)
		} else {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
	}
	for k, v := range c.cfg.ExtraHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, Classify(err, c.provider, c.model, 0)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := fmt.Errorf("API error (status %d): %s", resp.StatusCode, truncateBody(body))
		return nil, Classify(apiErr, c.provider, c.model, resp.StatusCode)
	}

	c.logger.Debug("llm completion",
		slog.String("provider", c.provider),
		slog.String("model", c.model),
		slog.Duration("duration", time.Since(start)))

	var args json.RawMessage
	switch c.cfg.Format {
	case APIFormatAnthropic:
		args, err = parseAnthropicToolCall(body, tool.Name)
	default:
		args, err = parseOpenAIToolCall(body, tool.Name)
	}
	if err != nil {
		return nil, Classify(err, c.provider, c.model, resp.StatusCode)
	}
	return args, nil
}

func (c *Client) openAIPayload(system, user string, tool Tool) ([]byte, error) {
	req := map[string]any{
		"model": c.model,
		"messages": []map[string]any{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"max_tokens":  defaultMaxTokens,
		"temperature": 0,
		"tools": []map[string]any{
			{
				"type": "function",
				"function": map[string]any{
					"name":        tool.Name,
					"description": tool.Description,
					"parameters":  tool.Schema,
				},
			},
		},
		"tool_choice": map[string]any{
			"type":     "function",
			"function": map[string]any{"name": tool.Name},
		},
	}
	return json.Marshal(req)
}

func (c *Client) anthropicPayload(system, user string, tool Tool) ([]byte, error) {
	req := map[string]any{
		"model":      c.model,
		"max_tokens": defaultMaxTokens,
		"system":     system,
		"messages": []map[string]any{
			{"role": "user", "content": user},
		},
		"tools": []map[string]any{
			{
				"name":         tool.Name,
				"description":  tool.Description,
				"input_schema": tool.Schema,
			},
		},
		"tool_choice": map[string]any{"type": "tool", "name": tool.Name},
	}
	return json.Marshal(req)
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func parseOpenAIToolCall(body []byte, toolName string) (json.RawMessage, error) {
	var resp openAIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("provider error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response: no choices returned")
	}
	msg := resp.Choices[0].Message
	for _, tc := range msg.ToolCalls {
		if tc.Function.Name == toolName {
			return json.RawMessage(tc.Function.Arguments), nil
		}
	}
	// Some OpenAI-compatible servers ignore tool_choice and put JSON in
	// the content instead. Accept it if it parses as an object.
	if json.Valid([]byte(msg.Content)) && len(msg.Content) > 0 && msg.Content[0] == '{' {
		return json.RawMessage(msg.Content), nil
	}
	return nil, fmt.Errorf("no tool call %q in response", toolName)
}

type anthropicResponse struct {
	Content []struct {
		Type  string          `json:"type"`
		Name  string          `json:"name"`
		Input json.RawMessage `json:"input"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func parseAnthropicToolCall(body []byte, toolName string) (json.RawMessage, error) {
	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("provider error: %s", resp.Error.Message)
	}
	for _, block := range resp.Content {
		if block.Type == "tool_use" && block.Name == toolName {
			return block.Input, nil
		}
	}
	return nil, fmt.Errorf("no tool_use block %q in response", toolName)
}

func truncateBody(body []byte) string {
	const limit = 512
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
