package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment. Both
// credentials are required; everything else has production defaults matching
// the deployed bot.
type Config struct {
	TelegramToken string `env:"TELEGRAM_BOT_TOKEN,notEmpty,required"`
	OpenRouterKey string `env:"OPENROUTER_API_KEY,notEmpty,required"`

	OpenRouterURL string `env:"OPENROUTER_URL" envDefault:"https://openrouter.ai/api/v1/chat/completions"`
	Model         string `env:"MODEL" envDefault:"meta-llama/llama-4-maverick:free"`
	SystemPrompt  string `env:"SYSTEM_PROMPT" envDefault:"You are a Sanskrit expert. Answer questions directly and concisely."`
	MaxTokens     int    `env:"MAX_TOKENS" envDefault:"1000"`

	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	PollTimeoutSecs int           `env:"POLL_TIMEOUT_SECONDS" envDefault:"30"`

	// HealthAddr enables the liveness endpoint when set (e.g. ":8080").
	HealthAddr string `env:"HEALTH_ADDR"`
}

// Load reads configuration from a local .env file (if present) and the
// environment. Missing credentials are an error; callers treat that as fatal
// before any connection is attempted.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// TelegramAPIBase is the bot API base URL for the configured token.
func (c Config) TelegramAPIBase() string {
	return "https://api.telegram.org/bot" + c.TelegramToken
}
