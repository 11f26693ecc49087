package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"linguabot/internal/config"
	"linguabot/internal/domain"
)

// BackendConstructor builds a backend from the LLM section of the config.
type BackendConstructor func(ctx context.Context, cfg config.LLMConfig, client *http.Client, logger *slog.Logger) (domain.Backend, error)

var constructors = map[string]BackendConstructor{
	"openai": func(_ context.Context, cfg config.LLMConfig, client *http.Client, logger *slog.Logger) (domain.Backend, error) {
		return NewOpenAI(OpenAIConfig{
			APIKey:     cfg.OpenAI.APIKey,
			APIBase:    cfg.OpenAI.APIBase,
			Model:      cfg.OpenAI.Model,
			MaxTokens:  cfg.MaxTokens,
			MaxRetries: cfg.MaxRetries,
			Client:     client,
			Logger:     logger,
		}), nil
	},
	"anthropic": func(_ context.Context, cfg config.LLMConfig, client *http.Client, logger *slog.Logger) (domain.Backend, error) {
		return NewClaude(ClaudeConfig{
			APIKey:     cfg.Anthropic.APIKey,
			APIBase:    cfg.Anthropic.APIBase,
			Model:      cfg.Anthropic.Model,
			MaxTokens:  cfg.MaxTokens,
			MaxRetries: cfg.MaxRetries,
			Client:     client,
			Logger:     logger,
		}), nil
	},
	"gemini": func(ctx context.Context, cfg config.LLMConfig, client *http.Client, logger *slog.Logger) (domain.Backend, error) {
		return NewGemini(ctx, GeminiConfig{
			APIKey:     cfg.Gemini.APIKey,
			APIBase:    cfg.Gemini.APIBase,
			Model:      cfg.Gemini.Model,
			MaxTokens:  cfg.MaxTokens,
			MaxRetries: cfg.MaxRetries,
			Client:     client,
			Logger:     logger,
		})
	},
}

// NewBackend returns the backend selected by cfg.Provider.
func NewBackend(ctx context.Context, cfg config.LLMConfig, client *http.Client, logger *slog.Logger) (domain.Backend, error) {
	ctor, ok := constructors[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %q", cfg.Provider)
	}
	b, err := ctor(ctx, cfg, client, logger)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", cfg.Provider, err)
	}
	logger.Info("llm backend selected", "provider", b.Name(), "model", b.Model())
	return b, nil
}

// NewTranscriber builds the Whisper client from the transcription section.
func NewTranscriber(cfg config.TranscriptionConfig, retries int, client *http.Client, logger *slog.Logger) domain.Transcriber {
	return NewWhisper(WhisperConfig{
		APIBase:    cfg.APIBase,
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		MaxRetries: retries,
		Client:     client,
		Logger:     logger,
	})
}
