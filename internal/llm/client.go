package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// LLMClient define la interfaz para generar texto con un LLM.
type LLMClient interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Options controla longitud maxima y temperatura de muestreo de una llamada.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// HTTPClient implementa LLMClient contra cualquier API OpenAI-compatible (OpenRouter, vLLM, etc).
type HTTPClient struct {
	client *resty.Client
	model  string
	logger *zap.Logger
}

// NewHTTPClient construye un cliente HTTP apuntando a la API de chat completions.
func NewHTTPClient(baseURL, apiKey, model string, logger *zap.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(60 * time.Second)
	return &HTTPClient{
		client: rc,
		model:  model,
		logger: logger,
	}
}

func (c *HTTPClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	temperature := opts.Temperature
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: &temperature,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(reqBody).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	body := resp.Body()
	if resp.IsError() {
		c.logger.Warn("llm error status",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", gjson.GetBytes(body, "error.message").String()),
		)
		return "", fmt.Errorf("llm http error: status=%d", resp.StatusCode())
	}

	if msg := gjson.GetBytes(body, "error.message"); msg.Exists() {
		return "", fmt.Errorf("llm api error: %s", msg.String())
	}

	content := gjson.GetBytes(body, "choices.0.message.content").String()
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("llm empty response")
	}
	return content, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
