// pkg/config/store.go

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	cerr "github.com/cockroachdb/errors"
	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/frkngnc/commitor/pkg/crypto"
	"github.com/frkngnc/commitor/pkg/xdg"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FileName is the config file under the XDG config directory.
const FileName = "config.yaml"

// DefaultPath is $XDG_CONFIG_HOME/commitor/config.yaml.
func DefaultPath() string {
	return xdg.XDGConfigPath(xdg.AppName, FileName)
}

// Store persists Config as YAML with the API key sealed.
type Store struct {
	path       string
	passphrase string
}

// NewStore returns a store at path; "" means DefaultPath.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path, passphrase: crypto.MachinePassphrase()}
}

// WithPassphrase overrides the machine-derived sealing passphrase.
func (s *Store) WithPassphrase(p string) *Store {
	return &Store{path: s.path, passphrase: p}
}

func (s *Store) Path() string { return s.path }

// Exists reports whether a config file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and decrypts the config. A missing file is ConfigurationMissing.
func (s *Store) Load(ctx context.Context) (Config, error) {
	logger := otelzap.Ctx(ctx)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, commitor_err.Wrap(commitor_err.ConfigurationMissing, err,
			"commitor is not configured yet",
			"run `commitor config init`")
	}
	if err != nil {
		return Config{}, cerr.Wrapf(err, "failed to read config file %s", s.path)
	}

	fc := fileConfig{Config: Default()}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, cerr.WithHint(cerr.Wrapf(err, "failed to parse %s", s.path),
			"fix the YAML by hand or run `commitor config clear`")
	}

	cfg := fc.Config
	if fc.EncryptedAPIKey != "" {
		key, err := crypto.OpenSecret(fc.EncryptedAPIKey, s.passphrase)
		if err != nil {
			return Config{}, err
		}
		cfg.APIKey = key
	}

	logger.Debug("Config loaded",
		zap.String("path", s.path),
		zap.String("provider", string(cfg.Provider)),
		zap.Bool("has_api_key", cfg.APIKey != ""))
	return cfg, nil
}

// LoadOrDefault returns Default() when no file exists.
func (s *Store) LoadOrDefault(ctx context.Context) (Config, error) {
	if !s.Exists() {
		return Default(), nil
	}
	return s.Load(ctx)
}

// Save validates cfg, seals the key and writes the file atomically.
func (s *Store) Save(ctx context.Context, cfg Config) error {
	logger := otelzap.Ctx(ctx)

	// ASSESS
	if err := Validate(cfg); err != nil {
		return err
	}

	fc := fileConfig{Config: cfg}
	if cfg.APIKey != "" {
		sealed, err := crypto.SealSecret(cfg.APIKey, s.passphrase)
		if err != nil {
			return cerr.Wrap(err, "failed to encrypt API key")
		}
		fc.EncryptedAPIKey = sealed
	}

	data, err := yaml.Marshal(&fc)
	if err != nil {
		return cerr.Wrap(err, "failed to encode config")
	}

	// INTERVENE
	if err := xdg.EnsureDir(s.path); err != nil {
		return cerr.Wrapf(err, "failed to create directory %s", filepath.Dir(s.path))
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".config-*.yaml")
	if err != nil {
		return cerr.Wrap(err, "failed to create temp config")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(xdg.FilePermOwnerReadWrite); err != nil {
		_ = tmp.Close()
		return cerr.Wrap(err, "failed to restrict config permissions")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return cerr.Wrap(err, "failed to write config")
	}
	if err := tmp.Close(); err != nil {
		return cerr.Wrap(err, "failed to flush config")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return cerr.Wrapf(err, "failed to write config file %s", s.path)
	}

	// EVALUATE
	logger.Info("Config file written",
		zap.String("path", s.path),
		zap.String("provider", string(cfg.Provider)),
		zap.String("language", string(cfg.Language)))
	return nil
}

// Update loads (or defaults), applies fn and saves.
func (s *Store) Update(ctx context.Context, fn func(*Config) error) (Config, error) {
	cfg, err := s.LoadOrDefault(ctx)
	if err != nil {
		return Config{}, err
	}
	if err := fn(&cfg); err != nil {
		return Config{}, err
	}
	if err := s.Save(ctx, cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Clear removes the config file. A missing file is not an error.
func (s *Store) Clear(ctx context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", s.path, err)
	}
	otelzap.Ctx(ctx).Info("Config cleared", zap.String("path", s.path))
	return nil
}
