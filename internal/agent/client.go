package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client is an HTTP Generator implementation. It speaks the Anthropic
// messages API by default and the OpenAI chat-completions API when the
// base URL points at an OpenAI-compatible endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	maxRetries int
	limiter    *rate.Limiter
	apiType    string // "anthropic" or "openai"
	logger     *slog.Logger
}

type Option func(*Client)

func WithRetry(maxRetries int) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		transport := c.httpClient.Transport
		c.httpClient = &http.Client{
			Timeout:   timeout,
			Transport: transport,
		}
	}
}

func WithRateLimit(requestsPerMinute, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst)
	}
}

func WithAPIConfig(baseURL, model string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
		c.model = model
		if strings.Contains(baseURL, "openai") {
			c.apiType = "openai"
		} else {
			c.apiType = "anthropic"
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	c := &Client{
		apiKey:  apiKey,
		baseURL: "https://api.anthropic.com/v1",
		model:   "claude-3-5-sonnet-20241022",
		httpClient: &http.Client{
			Timeout:   15 * time.Minute, // chapter-length completions are slow
			Transport: transport,
		},
		maxRetries: 3,
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
		apiType:    "anthropic",
		logger:     slog.Default().With("component", "generator_client"),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger.Debug("generator client initialized",
		"api_type", c.apiType,
		"base_url", c.baseURL,
		"model", c.model,
		"max_retries", c.maxRetries)

	return c
}

// Generate implements Generator. Transient failures are retried with a
// linear backoff up to the configured limit; the last error is returned
// wrapped in a GenerationError.
func (c *Client) Generate(ctx context.Context, systemPrompt string, messages []Message, cfg GenConfig) (string, error) {
	requestID := fmt.Sprintf("gen_%d", time.Now().UnixNano())
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		return "", &GenerationError{Provider: c.apiType, Cause: fmt.Errorf("rate limit wait: %w", err)}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", &GenerationError{Provider: c.apiType, Cause: ctx.Err()}
			}
		}

		c.logger.Debug("attempting generation request",
			"request_id", requestID,
			"attempt", attempt,
			"system_prompt_length", len(systemPrompt),
			"message_count", len(messages),
			"max_tokens", cfg.MaxTokens,
			"extended_reasoning", cfg.EnableExtendedReasoning,
			"model", c.model)

		text, err := c.doRequest(ctx, systemPrompt, messages, cfg)
		if err == nil {
			c.logger.Info("generation request successful",
				"request_id", requestID,
				"attempt", attempt,
				"response_length", len(text),
				"duration_ms", time.Since(start).Milliseconds())
			return text, nil
		}
		lastErr = err

		c.logger.Warn("generation request failed",
			"request_id", requestID,
			"attempt", attempt,
			"error", err)
	}

	c.logger.Error("generation failed after max retries",
		"request_id", requestID,
		"max_retries", c.maxRetries,
		"last_error", lastErr)

	var genErr *GenerationError
	if errors.As(lastErr, &genErr) {
		return "", genErr
	}
	return "", &GenerationError{Provider: c.apiType, Cause: lastErr}
}

func (c *Client) doRequest(ctx context.Context, systemPrompt string, messages []Message, cfg GenConfig) (string, error) {
	if c.apiType == "openai" {
		return c.doOpenAIRequest(ctx, systemPrompt, messages, cfg)
	}
	return c.doAnthropicRequest(ctx, systemPrompt, messages, cfg)
}

func (c *Client) doAnthropicRequest(ctx context.Context, systemPrompt string, messages []Message, cfg GenConfig) (string, error) {
	body := map[string]any{
		"model":      c.model,
		"system":     systemPrompt,
		"messages":   messages,
		"max_tokens": cfg.MaxTokens,
	}
	if cfg.Temperature > 0 {
		body["temperature"] = cfg.Temperature
	}
	if cfg.TopP != nil {
		body["top_p"] = *cfg.TopP
	}
	if cfg.TopK != nil {
		body["top_k"] = *cfg.TopK
	}
	if cfg.EnableExtendedReasoning {
		body["thinking"] = map[string]any{
			"type":          "enabled",
			"budget_tokens": cfg.ReasoningBudget,
		}
	}

	respBody, status, err := c.post(ctx, "/messages", body, map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": "2023-06-01",
	})
	if err != nil {
		return "", &GenerationError{Provider: "anthropic", StatusCode: status, Cause: err}
	}

	var response struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", &GenerationError{Provider: "anthropic", Cause: fmt.Errorf("parsing response: %w", err)}
	}

	// Reasoning blocks are skipped; only text blocks form the result.
	var parts []string
	for _, block := range response.Content {
		if block.Type == "" || block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", &GenerationError{Provider: "anthropic", Cause: fmt.Errorf("no text content in response")}
	}

	c.logger.Debug("anthropic request completed",
		"input_tokens", response.Usage.InputTokens,
		"output_tokens", response.Usage.OutputTokens)

	return strings.Join(parts, "\n"), nil
}

func (c *Client) doOpenAIRequest(ctx context.Context, systemPrompt string, messages []Message, cfg GenConfig) (string, error) {
	all := make([]Message, 0, len(messages)+1)
	if systemPrompt != "" {
		all = append(all, Message{Role: "system", Content: systemPrompt})
	}
	all = append(all, messages...)

	body := map[string]any{
		"model":      c.model,
		"messages":   all,
		"max_tokens": cfg.MaxTokens,
	}
	if cfg.Temperature > 0 {
		body["temperature"] = cfg.Temperature
	}
	if cfg.TopP != nil {
		body["top_p"] = *cfg.TopP
	}

	respBody, status, err := c.post(ctx, "/chat/completions", body, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	})
	if err != nil {
		return "", &GenerationError{Provider: "openai", StatusCode: status, Cause: err}
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", &GenerationError{Provider: "openai", Cause: fmt.Errorf("parsing response: %w", err)}
	}
	if len(response.Choices) == 0 {
		return "", &GenerationError{Provider: "openai", Cause: fmt.Errorf("no choices in response")}
	}

	c.logger.Debug("openai request completed",
		"prompt_tokens", response.Usage.PromptTokens,
		"completion_tokens", response.Usage.CompletionTokens)

	return response.Choices[0].Message.Content, nil
}

// post marshals body, issues the request and returns the raw response body.
// Non-2xx statuses are returned as errors alongside the status code.
func (c *Client) post(ctx context.Context, path string, body any, headers map[string]string) ([]byte, int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, resp.StatusCode, nil
}
