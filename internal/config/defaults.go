package config

import "time"

// DefaultGreeting is sent in reply to /start.
const DefaultGreeting = "Здравствуйте 👋 Готов помочь с переводом. Просто отправьте мне текст или голосовое сообщение, которое нужно перевести."

func Defaults() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "anthropic",
			MaxTokens: 4096,
			OpenAI: ProviderConfig{
				APIBase: "https://api.openai.com/v1",
				Model:   "gpt-4-turbo-preview",
			},
			Anthropic: ProviderConfig{
				APIBase: "https://api.anthropic.com/v1",
				Model:   "claude-3-5-sonnet-latest",
			},
			Gemini: ProviderConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Transcription: TranscriptionConfig{
			APIBase: "https://api.openai.com/v1",
			Model:   "whisper-1",
		},
		Media: MediaConfig{
			FFmpegPath: "ffmpeg",
		},
		Messages: MessagesConfig{
			Greeting: DefaultGreeting,
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			WebhookPath:    "/api/webhook",
			ProcessTimeout: 5 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Audit: AuditConfig{
			Enabled:       false,
			DBPath:        "linguabot.db",
			RetentionDays: 30,
		},
		Scheduler: SchedulerConfig{
			PruneCron: "0 3 * * *",
			SweepCron: "*/30 * * * *",
		},
	}
}
