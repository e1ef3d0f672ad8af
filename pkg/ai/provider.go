// pkg/ai/provider.go
//
// Generation backends for commit messages. Every backend implements Provider
// and reports failures as *ProviderError so the caller can decide between
// retrying and stopping without knowing which vendor is behind it.

package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/frkngnc/commitor/pkg/commitor_err"
)

// Kind selects a backend.
type Kind string

const (
	KindOpenAI    Kind = "openai"
	KindAnthropic Kind = "anthropic"
	KindOllama    Kind = "ollama"
)

// Kinds lists every supported backend in display order.
var Kinds = []Kind{KindOpenAI, KindAnthropic, KindOllama}

// ParseKind accepts a backend name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q (want openai, anthropic or ollama)", s)
}

// NeedsAPIKey reports whether the backend authenticates with an API key.
func (k Kind) NeedsAPIKey() bool {
	return k == KindOpenAI || k == KindAnthropic
}

// Request is one generation call.
type Request struct {
	Prompt string
	System string
}

// Response carries the raw completion text.
type Response struct {
	Text     string
	Model    string
	Provider string
	Duration time.Duration
}

// Provider is a text-generation backend.
type Provider interface {
	Generate(ctx context.Context, req Request) (Response, error)
	HealthCheck(ctx context.Context) error
	Name() string
}

// Config selects and tunes a backend. Zero values take the backend defaults.
type Config struct {
	Kind        Kind
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	MaxTokens   int
	// RequestsPerMinute throttles calls client-side; 0 disables throttling.
	RequestsPerMinute int
	HTTPClient        *http.Client
}

// DefaultTemperature is used when Config.Temperature is zero.
const DefaultTemperature float32 = 0.7

// Defaults returns the per-backend model, token budget and endpoint.
func Defaults(kind Kind) Config {
	switch kind {
	case KindAnthropic:
		return Config{
			Kind:        KindAnthropic,
			Model:       "claude-3-5-sonnet-20241022",
			MaxTokens:   1024,
			BaseURL:     "https://api.anthropic.com",
			Temperature: DefaultTemperature,
		}
	case KindOllama:
		return Config{
			Kind:        KindOllama,
			Model:       "llama3.2",
			MaxTokens:   500,
			BaseURL:     "http://localhost:11434",
			Temperature: DefaultTemperature,
		}
	default:
		return Config{
			Kind:        KindOpenAI,
			Model:       "gpt-4o-mini",
			MaxTokens:   500,
			Temperature: DefaultTemperature,
		}
	}
}

// withDefaults fills unset fields from Defaults(cfg.Kind).
func (cfg Config) withDefaults() Config {
	d := Defaults(cfg.Kind)
	if cfg.Model == "" {
		cfg.Model = d.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = d.MaxTokens
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = d.BaseURL
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = d.Temperature
	}
	return cfg
}

// New builds the backend for cfg.Kind, wrapped in a Guard.
func New(cfg Config) (Provider, error) {
	cfg = cfg.withDefaults()

	if cfg.Kind.NeedsAPIKey() && strings.TrimSpace(cfg.APIKey) == "" {
		return nil, commitor_err.New(commitor_err.ConfigurationMissing,
			fmt.Sprintf("no API key configured for %s", cfg.Kind),
			"run `commitor config init`",
			fmt.Sprintf("or export %s_API_KEY", strings.ToUpper(string(cfg.Kind))))
	}

	var p Provider
	switch cfg.Kind {
	case KindOpenAI:
		p = newOpenAI(cfg)
	case KindAnthropic:
		p = newAnthropic(cfg)
	case KindOllama:
		p = newOllama(cfg)
	default:
		return nil, commitor_err.New(commitor_err.ConfigurationMissing,
			fmt.Sprintf("unknown provider %q", cfg.Kind),
			"use one of: openai, anthropic, ollama")
	}

	return NewGuard(p, GuardConfig{RequestsPerMinute: cfg.RequestsPerMinute}), nil
}
