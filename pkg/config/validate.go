// pkg/config/validate.go

package config

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

const (
	minAPIKeyLength         = 20
	maxCustomLanguageLength = 40
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("language", validateLanguageName)
	_ = v.RegisterValidation("connection", validateConnection)
	v.RegisterStructValidation(validateConfigStruct, Config{})
	return v
}

// validateLanguageName accepts a free-text language name such as "German" or "Brazilian Portuguese".
func validateLanguageName(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" || utf8.RuneCountInString(s) > maxCustomLanguageLength {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && r != ' ' && r != '-' && r != '(' && r != ')' {
			return false
		}
	}
	return true
}

func validateConnection(fl validator.FieldLevel) bool {
	return ConnectionType(fl.Field().String()) == ConnectionAPI
}

func validateConfigStruct(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	if cfg.Language == LanguageCustom && strings.TrimSpace(cfg.CustomLanguage) == "" {
		sl.ReportError(cfg.CustomLanguage, "CustomLanguage", "custom_language", "required_with_custom", "")
	}
	if cfg.APIKey != "" {
		if err := CheckAPIKey(cfg.Provider, cfg.APIKey); err != nil {
			sl.ReportError(cfg.APIKey, "APIKey", "api_key", "apikey", "")
		}
	}
}

// CheckAPIKey validates the shape of a key for provider.
func CheckAPIKey(provider Provider, key string) error {
	key = strings.TrimSpace(key)
	switch provider {
	case ProviderOllama:
		return nil
	case ProviderOpenAI:
		if !strings.HasPrefix(key, "sk-") {
			return fmt.Errorf("OpenAI API keys start with \"sk-\"")
		}
	case ProviderAnthropic:
		if !strings.HasPrefix(key, "sk-ant-") {
			return fmt.Errorf("Anthropic API keys start with \"sk-ant-\"")
		}
	}
	if len(key) < minAPIKeyLength {
		return fmt.Errorf("API key appears to be too short")
	}
	return nil
}

// Validate checks cfg and reports every violation at once.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var result *multierror.Error
	for _, fe := range verrs {
		result = multierror.Append(result, describe(cfg, fe))
	}
	return commitor_err.Wrap(commitor_err.ConfigurationMissing, result.ErrorOrNil(),
		"invalid configuration",
		"run `commitor config show` to inspect the current values",
		"or `commitor config init` to start over")
}

func describe(cfg Config, fe validator.FieldError) error {
	switch fe.Tag() {
	case "connection":
		if cfg.ConnectionType == ConnectionBrowser {
			return fmt.Errorf("connection_type %q is not supported; use \"api\"", cfg.ConnectionType)
		}
		return fmt.Errorf("connection_type must be \"api\"")
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %q", yamlName(fe), fe.Param(), fe.Value())
	case "required":
		return fmt.Errorf("%s is required", yamlName(fe))
	case "required_with_custom":
		return fmt.Errorf("custom_language is required when language is \"custom\"")
	case "language":
		return fmt.Errorf("custom_language %q must be a language name of at most %d letters", fe.Value(), maxCustomLanguageLength)
	case "apikey":
		return fmt.Errorf("api_key: %v", CheckAPIKey(cfg.Provider, cfg.APIKey))
	case "url":
		return fmt.Errorf("base_url %q is not a valid URL", fe.Value())
	case "min", "gte":
		return fmt.Errorf("%s must be at least %s", yamlName(fe), fe.Param())
	case "max", "lte":
		return fmt.Errorf("%s must be at most %s", yamlName(fe), fe.Param())
	default:
		return fmt.Errorf("%s failed %q validation", yamlName(fe), fe.Tag())
	}
}

func yamlName(fe validator.FieldError) string {
	return fe.Field()
}

// CheckLanguageName validates a free-text language name as entered at a prompt.
func CheckLanguageName(name string) error {
	if err := validate.Var(name, "language"); err != nil {
		return fmt.Errorf("%q is not a language name (letters, spaces and hyphens, at most %d characters)",
			strings.TrimSpace(name), maxCustomLanguageLength)
	}
	return nil
}
