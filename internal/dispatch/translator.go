package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"linguabot/internal/domain"
	"linguabot/internal/metrics"
)

// Language is a translation target. Name is substituted into the prompt,
// Label prefixes the reply (empty for the bare Russian translation).
type Language struct {
	Code  string
	Name  string
	Label string
}

var (
	English    = Language{Code: "en", Name: "английский", Label: "Перевод на английский:"}
	Indonesian = Language{Code: "id", Name: "индонезийский", Label: "Перевод на индонезийский:"}
	Russian    = Language{Code: "ru", Name: "русский"}
)

// LanguageByCode resolves "en", "id" or "ru".
func LanguageByCode(code string) (Language, bool) {
	for _, l := range []Language{English, Indonesian, Russian} {
		if strings.EqualFold(l.Code, code) {
			return l, true
		}
	}
	return Language{}, false
}

var errEmptyCompletion = errors.New("backend returned an empty completion")

// Translator runs the correction and translation prompts against a backend.
// It returns errors as-is; fallback text is the dispatcher's concern.
type Translator struct {
	backend domain.Backend
}

func NewTranslator(backend domain.Backend) *Translator {
	return &Translator{backend: backend}
}

// Correct proofreads a speech transcript.
func (t *Translator) Correct(ctx context.Context, text string) (string, error) {
	return t.complete(ctx, "correction", correctionPrompt, text)
}

// Translate renders text in the target language.
func (t *Translator) Translate(ctx context.Context, text string, target Language) (string, error) {
	return t.complete(ctx, "translation_"+target.Code, translationPrompt(target.Name), text)
}

func (t *Translator) complete(ctx context.Context, purpose, systemPrompt, text string) (string, error) {
	start := time.Now()
	out, err := t.backend.Complete(ctx, systemPrompt, text)
	if err == nil {
		out = strings.TrimSpace(out)
		if out == "" {
			err = errEmptyCompletion
		}
	}
	metrics.LLMRequest(t.backend.Name(), purpose, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("%s: %w", t.backend.Name(), err)
	}
	return out, nil
}
