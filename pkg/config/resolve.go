// pkg/config/resolve.go

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/frkngnc/commitor/pkg/cli"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// EnvPrefix namespaces environment overrides, e.g. COMMITOR_PROVIDER.
const EnvPrefix = "COMMITOR"

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"provider",
	"language",
	"custom_language",
	"api_key",
	"model",
	"base_url",
	"max_attempts",
	"requests_per_minute",
	"temperature",
}

// NewViper returns a viper instance reading COMMITOR_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	cli.SetViperEnvPrefix(v, EnvPrefix)
	return v
}

// LoadDotEnv loads dir/.env into the environment without overriding
// variables that are already set. A missing file is ignored.
func LoadDotEnv(ctx context.Context, dir string) {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		otelzap.Ctx(ctx).Warn("Failed to load .env", zap.String("path", path), zap.Error(err))
		return
	}
	otelzap.Ctx(ctx).Debug("Loaded .env", zap.String("path", path))
}

// Resolve layers flags and environment (through v) over the stored config.
// Precedence is flags > env > file > defaults. When no key is configured the
// vendor variables OPENAI_API_KEY / ANTHROPIC_API_KEY are consulted.
func Resolve(ctx context.Context, store *Store, v *viper.Viper) (Config, error) {
	cfg, err := Overlay(ctx, store, v)
	if err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Overlay is Resolve without validation. Commands that never call a
// provider use it so a missing key does not block them.
func Overlay(ctx context.Context, store *Store, v *viper.Viper) (Config, error) {
	cfg, err := store.LoadOrDefault(ctx)
	if err != nil {
		return Config{}, err
	}

	if v != nil {
		for _, key := range Keys {
			if !v.IsSet(key) {
				continue
			}
			if err := Set(&cfg, key, v.GetString(key)); err != nil {
				return Config{}, fmt.Errorf("override %s: %w", key, err)
			}
		}
	}

	if cfg.APIKey == "" {
		switch cfg.Provider {
		case ProviderOpenAI:
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		case ProviderAnthropic:
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	return cfg, nil
}

// Set assigns a string value to a configuration key.
func Set(cfg *Config, key, value string) error {
	value = strings.TrimSpace(value)
	switch cli.ViperKey(strings.ToLower(key)) {
	case "provider":
		cfg.Provider = Provider(strings.ToLower(value))
	case "connection_type":
		cfg.ConnectionType = ConnectionType(strings.ToLower(value))
	case "language":
		switch lang := Language(strings.ToLower(value)); lang {
		case LanguageTurkish, LanguageEnglish, LanguageAuto, LanguageCustom:
			cfg.Language = lang
		default:
			// any other value is taken as a custom language name
			cfg.Language = LanguageCustom
			cfg.CustomLanguage = value
		}
	case "custom_language":
		cfg.CustomLanguage = value
	case "api_key":
		cfg.APIKey = value
	case "model":
		cfg.Model = value
	case "base_url":
		cfg.BaseURL = value
	case "max_attempts":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max_attempts must be an integer: %w", err)
		}
		cfg.MaxAttempts = n
	case "requests_per_minute":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("requests_per_minute must be an integer: %w", err)
		}
		cfg.RequestsPerMinute = n
	case "temperature":
		f, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return fmt.Errorf("temperature must be a number: %w", err)
		}
		cfg.Temperature = float32(f)
	default:
		return fmt.Errorf("unknown key %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}
