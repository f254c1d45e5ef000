package env

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config is the typed view of the environment used by cmd/dashboard.
type Config struct {
	AppEnv       string `validate:"oneof=dev prod test"`
	Host         string `validate:"required"`
	Port         string `validate:"required,numeric"`
	PublicDomain string `validate:"omitempty,url"`

	DBDriver string `validate:"oneof=mysql sqlite"`

	DiscordClientID     string `validate:"required_if=AppEnv prod"`
	DiscordClientSecret string `validate:"required_if=AppEnv prod"`
	DiscordBotToken     string `validate:"required_if=AppEnv prod"`
	DiscordLogChannel   string `validate:"omitempty,numeric"`

	StripeSecretKey     string `validate:"required_if=AppEnv prod"`
	StripeWebhookSecret string `validate:"required_if=AppEnv prod"`

	TokenEncryptionKey string `validate:"omitempty,len=64,hexadecimal"`
	GameConfigPath     string
}

var validate = validator.New()

// Load reads the known keys from the loaded env map and validates them.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:              GetEnv("APP_ENV", "prod"),
		Host:                GetEnv("APP_HOST", "localhost"),
		Port:                GetEnv("APP_PORT", "3000"),
		PublicDomain:        strings.TrimRight(GetEnv("PUBLIC_DOMAIN", ""), "/"),
		DBDriver:            GetEnv("DB_DRIVER", "mysql"),
		DiscordClientID:     GetEnv("DISCORD_CLIENT_ID", ""),
		DiscordClientSecret: GetEnv("DISCORD_CLIENT_SECRET", ""),
		DiscordBotToken:     GetEnv("DISCORD_BOT_TOKEN", ""),
		DiscordLogChannel:   GetEnv("DISCORD_LOG_CHANNEL", ""),
		StripeSecretKey:     GetEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: GetEnv("STRIPE_WEBHOOK_SECRET", ""),
		TokenEncryptionKey:  GetEnv("TOKEN_ENCRYPTION_KEY", ""),
		GameConfigPath:      GetEnv("GAME_CONFIG", ""),
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, nil
}

// BaseURL is the externally reachable origin used for OAuth and Stripe redirects.
func (c *Config) BaseURL() string {
	if c.PublicDomain != "" {
		return c.PublicDomain
	}
	return "http://" + c.Host + ":" + c.Port
}
