package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// applyEnv overlays environment variables onto cfg. Unset or empty
// variables leave the current value in place.
func applyEnv(cfg *Config) error {
	e := &envReader{}

	e.str("TELEGRAM_BOT_TOKEN", &cfg.Telegram.Token)
	e.int64("LOG_CHAT_ID", &cfg.Telegram.LogChatID)
	e.str("WEBHOOK_SECRET", &cfg.Telegram.WebhookSecret)
	e.str("TELEGRAM_API_ENDPOINT", &cfg.Telegram.APIEndpoint)

	e.str("PROVIDER", &cfg.LLM.Provider)
	e.int("LLM_MAX_TOKENS", &cfg.LLM.MaxTokens)
	e.int("LLM_MAX_RETRIES", &cfg.LLM.MaxRetries)
	e.str("OPENAI_API_KEY", &cfg.LLM.OpenAI.APIKey)
	e.str("OPENAI_MODEL", &cfg.LLM.OpenAI.Model)
	e.str("OPENAI_API_BASE", &cfg.LLM.OpenAI.APIBase)
	e.str("ANTHROPIC_API_KEY", &cfg.LLM.Anthropic.APIKey)
	e.str("ANTHROPIC_MODEL", &cfg.LLM.Anthropic.Model)
	e.str("GEMINI_API_KEY", &cfg.LLM.Gemini.APIKey)
	e.str("GEMINI_MODEL", &cfg.LLM.Gemini.Model)

	e.str("WHISPER_MODEL", &cfg.Transcription.Model)

	e.str("FFMPEG_PATH", &cfg.Media.FFmpegPath)
	e.str("MEDIA_TEMP_DIR", &cfg.Media.TempDir)

	e.str("START_MESSAGE", &cfg.Messages.Greeting)

	e.str("HOST", &cfg.Server.Host)
	e.int("PORT", &cfg.Server.Port)
	e.str("WEBHOOK_PATH", &cfg.Server.WebhookPath)
	e.duration("PROCESS_TIMEOUT", &cfg.Server.ProcessTimeout)

	e.str("LOG_LEVEL", &cfg.Log.Level)
	e.str("LOG_FORMAT", &cfg.Log.Format)

	e.bool("AUDIT_ENABLED", &cfg.Audit.Enabled)
	e.str("AUDIT_DB_PATH", &cfg.Audit.DBPath)
	e.int("AUDIT_RETENTION_DAYS", &cfg.Audit.RetentionDays)

	return errors.Join(e.errs...)
}

type envReader struct {
	errs []error
}

func (e *envReader) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	return v, ok && v != ""
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.lookup(key); ok {
		*dst = v
	}
}

func (e *envReader) int(key string, dst *int) {
	if v, ok := e.lookup(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: %q is not an integer", key, v))
			return
		}
		*dst = n
	}
}

func (e *envReader) int64(key string, dst *int64) {
	if v, ok := e.lookup(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: %q is not an integer", key, v))
			return
		}
		*dst = n
	}
}

func (e *envReader) bool(key string, dst *bool) {
	if v, ok := e.lookup(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: %q is not a boolean", key, v))
			return
		}
		*dst = b
	}
}

func (e *envReader) duration(key string, dst *time.Duration) {
	if v, ok := e.lookup(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: %q is not a duration", key, v))
			return
		}
		*dst = d
	}
}
