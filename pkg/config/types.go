// pkg/config/types.go

package config

// Provider names a generation backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

// ConnectionType is how the backend is reached. Only "api" is supported.
type ConnectionType string

const (
	ConnectionAPI     ConnectionType = "api"
	ConnectionBrowser ConnectionType = "browser"
)

// Language is the commit-message language preference.
type Language string

const (
	LanguageTurkish Language = "tr"
	LanguageEnglish Language = "en"
	LanguageAuto    Language = "auto"
	LanguageCustom  Language = "custom"
)

const (
	DefaultMaxAttempts       = 3
	DefaultRequestsPerMinute = 20
	DefaultTemperature       = 0.7
)

// Config is the persisted user configuration. APIKey is held in plaintext in
// memory only; the store seals it before writing.
type Config struct {
	Provider          Provider       `yaml:"provider" json:"provider" validate:"required,oneof=openai anthropic ollama"`
	ConnectionType    ConnectionType `yaml:"connection_type" json:"connection_type" validate:"required,connection"`
	Language          Language       `yaml:"language" json:"language" validate:"required,oneof=tr en auto custom"`
	CustomLanguage    string         `yaml:"custom_language,omitempty" json:"custom_language,omitempty" validate:"omitempty,language"`
	APIKey            string         `yaml:"-" json:"-"`
	Model             string         `yaml:"model,omitempty" json:"model,omitempty" validate:"omitempty,max=128"`
	BaseURL           string         `yaml:"base_url,omitempty" json:"base_url,omitempty" validate:"omitempty,url"`
	MaxAttempts       int            `yaml:"max_attempts" json:"max_attempts" validate:"min=1,max=10"`
	RequestsPerMinute int            `yaml:"requests_per_minute" json:"requests_per_minute" validate:"min=0,max=600"`
	Temperature       float32        `yaml:"temperature" json:"temperature" validate:"gte=0,lte=2"`
}

// Default returns the configuration used before `config init` has run.
func Default() Config {
	return Config{
		Provider:          ProviderOpenAI,
		ConnectionType:    ConnectionAPI,
		Language:          LanguageAuto,
		MaxAttempts:       DefaultMaxAttempts,
		RequestsPerMinute: DefaultRequestsPerMinute,
		Temperature:       DefaultTemperature,
	}
}

// fileConfig is the on-disk shape: Config plus the sealed key.
type fileConfig struct {
	Config          `yaml:",inline"`
	EncryptedAPIKey string `yaml:"api_key,omitempty"`
}
