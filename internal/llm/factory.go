package llm

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"interview-coach/internal/config"
)

// NewFromConfig elige el proveedor segun LLM_PROVIDER. Sin credenciales devuelve
// un DisabledClient para que la entrevista avance con contenido de respaldo.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) LLMClient {
	provider := strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	switch provider {
	case "gemini":
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("gemini client init failed", zap.Error(err))
			return NewDisabledClient("gemini client not configured")
		}
		return client
	case "compatible":
		if strings.TrimSpace(cfg.LLMAPIKey) == "" {
			logger.Warn("llm api key not configured", zap.String("provider", provider))
			return NewDisabledClient("llm api key not configured")
		}
		return NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	case "openai", "":
		if strings.TrimSpace(cfg.LLMAPIKey) == "" {
			logger.Warn("llm api key not configured", zap.String("provider", "openai"))
			return NewDisabledClient("llm api key not configured")
		}
		return NewOpenAIClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
	case "disabled":
		return NewDisabledClient("llm provider disabled")
	default:
		logger.Warn("unknown llm provider", zap.String("provider", provider))
		return NewDisabledClient("unknown llm provider " + provider)
	}
}
