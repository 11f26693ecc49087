package config

// Sanitize returns a copy of cfg with secrets masked, safe to print or log.
func Sanitize(cfg *Config) *Config {
	c := *cfg
	c.Telegram.Token = maskString(c.Telegram.Token)
	c.Telegram.WebhookSecret = maskString(c.Telegram.WebhookSecret)
	c.LLM.OpenAI.APIKey = maskString(c.LLM.OpenAI.APIKey)
	c.LLM.Anthropic.APIKey = maskString(c.LLM.Anthropic.APIKey)
	c.LLM.Gemini.APIKey = maskString(c.LLM.Gemini.APIKey)
	c.Transcription.APIKey = maskString(c.Transcription.APIKey)
	return &c
}

func maskString(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
