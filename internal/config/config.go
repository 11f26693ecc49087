// Package config loads linguabot configuration from defaults, an optional
// YAML file, a .env file and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrConfiguration wraps every error returned by Load and Validate.
var ErrConfiguration = errors.New("configuration error")

// Config is the root configuration. It is built once at startup and never mutated.
type Config struct {
	Telegram      TelegramConfig      `yaml:"telegram"`
	LLM           LLMConfig           `yaml:"llm"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Media         MediaConfig         `yaml:"media"`
	Messages      MessagesConfig      `yaml:"messages"`
	Server        ServerConfig        `yaml:"server"`
	Log           LogConfig           `yaml:"log"`
	Audit         AuditConfig         `yaml:"audit"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
}

type TelegramConfig struct {
	Token         string `yaml:"token"         validate:"required"`
	LogChatID     int64  `yaml:"logChatId"     validate:"required,ne=0"`
	WebhookSecret string `yaml:"webhookSecret" validate:"omitempty,max=256"`
	APIEndpoint   string `yaml:"apiEndpoint,omitempty"`
}

type LLMConfig struct {
	Provider   string         `yaml:"provider"   validate:"oneof=openai anthropic gemini"`
	MaxTokens  int            `yaml:"maxTokens"  validate:"min=1,max=200000"`
	MaxRetries int            `yaml:"maxRetries" validate:"min=0,max=10"`
	OpenAI     ProviderConfig `yaml:"openai"`
	Anthropic  ProviderConfig `yaml:"anthropic"`
	Gemini     ProviderConfig `yaml:"gemini"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"apiKey,omitempty"`
	APIBase string `yaml:"apiBase,omitempty" validate:"omitempty,url"`
	Model   string `yaml:"model"             validate:"required"`
}

type TranscriptionConfig struct {
	APIBase string `yaml:"apiBase" validate:"required,url"`
	APIKey  string `yaml:"apiKey,omitempty"`
	Model   string `yaml:"model"   validate:"required"`
}

type MediaConfig struct {
	FFmpegPath string `yaml:"ffmpegPath" validate:"required"`
	TempDir    string `yaml:"tempDir,omitempty"`
}

type MessagesConfig struct {
	Greeting string `yaml:"greeting" validate:"required"`
}

type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"           validate:"min=1,max=65535"`
	WebhookPath    string        `yaml:"webhookPath"    validate:"required,startswith=/"`
	ProcessTimeout time.Duration `yaml:"processTimeout" validate:"min=1s,max=1h"`
}

type LogConfig struct {
	Level  string `yaml:"level"  validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

type AuditConfig struct {
	Enabled       bool   `yaml:"enabled"`
	DBPath        string `yaml:"dbPath"        validate:"required_if=Enabled true"`
	RetentionDays int    `yaml:"retentionDays" validate:"min=1"`
}

type SchedulerConfig struct {
	PruneCron string `yaml:"pruneCron" validate:"required"`
	SweepCron string `yaml:"sweepCron" validate:"required"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Backend returns the provider settings of the selected LLM backend.
func (l LLMConfig) Backend() ProviderConfig {
	switch l.Provider {
	case "openai":
		return l.OpenAI
	case "gemini":
		return l.Gemini
	default:
		return l.Anthropic
	}
}

// Load builds the configuration. A missing file at path is not an error:
// deployments on serverless platforms configure everything through the environment.
func Load(path string) (*Config, error) {
	// .env is optional; a missing file is the common case.
	_ = godotenv.Load()

	cfg := Defaults()

	if path != "" {
		path = ExpandPath(path)
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			data = []byte(ExpandEnvVars(string(data)))
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("%w: cannot parse config file %s: %v", ErrConfiguration, path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("%w: cannot read config file %s: %v", ErrConfiguration, path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if cfg.Transcription.APIKey == "" {
		cfg.Transcription.APIKey = cfg.LLM.OpenAI.APIKey
	}
	cfg.Audit.DBPath = ExpandPath(cfg.Audit.DBPath)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the cross-field rules the tags cannot express.
func Validate(cfg *Config) error {
	var errs []string

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	if cfg.LLM.Backend().APIKey == "" {
		errs = append(errs, fmt.Sprintf("llm.%s.apiKey is required for the selected provider", cfg.LLM.Provider))
	}
	if cfg.Transcription.APIKey == "" {
		errs = append(errs, "transcription.apiKey (or llm.openai.apiKey) is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrConfiguration, strings.Join(errs, "\n  - "))
	}
	return nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		hasDefault := len(groups) >= 3 && groups[2] != ""

		val, exists := os.LookupEnv(groups[1])
		if !exists || val == "" {
			if hasDefault {
				return groups[2]
			}
			return match
		}
		return val
	})
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
