package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Gemini implements domain.Backend with the Google GenAI SDK.
type Gemini struct {
	client     *genai.Client
	model      string
	maxTokens  int
	maxRetries int
	logger     *slog.Logger
}

type GeminiConfig struct {
	APIKey string
	// APIBase overrides the SDK endpoint; used by tests.
	APIBase    string
	Model      string
	MaxTokens  int
	MaxRetries int
	Client     *http.Client
	Logger     *slog.Logger
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.Client,
	}
	if cfg.APIBase != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.APIBase}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Gemini{
		client:     client,
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		maxRetries: cfg.MaxRetries,
		logger:     cfg.Logger,
	}, nil
}

func (g *Gemini) Name() string  { return "gemini" }
func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		MaxOutputTokens:   int32(g.maxTokens),
	}

	var resp *genai.GenerateContentResponse
	var err error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		resp, err = g.client.Models.GenerateContent(ctx, g.model, genai.Text(userText), genCfg)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt < g.maxRetries {
			g.logger.Warn("gemini API error, retrying", "error", err, "attempt", attempt+1)
		}
	}
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: response has no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return "", errors.New("gemini: response has no text")
	}

	g.logger.Debug("gemini completion", "model", g.model, "finish_reason", resp.Candidates[0].FinishReason)
	return b.String(), nil
}
