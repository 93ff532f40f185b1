package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"app/internal/model"

	"github.com/rs/zerolog"
)

const chatCompletionsEndpoint = "/chat/completions"

// OpenRouterClient issues chat-completion calls against an
// OpenAI-compatible generation service.
type OpenRouterClient interface {
	// CreateChatCompletion makes exactly one bounded-timeout upstream
	// call and returns the raw message text. No retries.
	CreateChatCompletion(ctx context.Context, messages []model.ChatMessage) (string, error)
}

type openRouterClient struct {
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration
	client  *http.Client
	logger  zerolog.Logger
}

// NewOpenRouterClient creates a generation service client. A
// non-positive timeout is raised to the 1ms floor.
func NewOpenRouterClient(baseURL, apiKey, modelName string, timeout time.Duration, logger zerolog.Logger) OpenRouterClient {
	if timeout < time.Millisecond {
		timeout = time.Millisecond
	}
	return &openRouterClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   modelName,
		timeout: timeout,
		client: &http.Client{
			// No client timeout: the per-call deadline is carried by the
			// request context so the in-flight call is cancelled on expiry.
		},
		logger: logger.With().Str("service", "OpenRouterClient").Logger(),
	}
}

type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
	Messages    []model.ChatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *openRouterClient) CreateChatCompletion(ctx context.Context, messages []model.ChatMessage) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody := chatCompletionRequest{
		Model:       c.model,
		Temperature: 0.2,
		MaxTokens:   1200,
		Messages:    append([]model.ChatMessage{{Role: "system", Content: systemPrompt()}}, messages...),
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsEndpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// Timeouts, aborts and network failures all collapse to the
		// same kind; the caller cannot tell "down" from "slow".
		c.logger.Warn().Err(err).Msg("Generation request failed")
		return "", ErrAIUnavailable
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to read generation response")
		return "", ErrAIUnavailable
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn().Int("status_code", resp.StatusCode).Msg("Generation service returned error status")
		return "", ErrAIUnavailable
	}

	var envelope chatCompletionResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.logger.Warn().Err(err).Msg("Undecodable generation response envelope")
		return "", ErrAIUnavailable
	}
	if len(envelope.Choices) == 0 || envelope.Choices[0].Message.Content == "" {
		return "", ErrAIInvalidOutput
	}
	return envelope.Choices[0].Message.Content, nil
}
