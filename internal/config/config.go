// Package config loads codeassist settings, credentials, and model pricing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultModel is used when neither the session nor the command names a model.
	DefaultModel = "gpt-5-mini"
	// DefaultHistoryTurns is both the default and the ceiling for how many
	// prior turns are replayed to the model; history_turns may only lower it.
	DefaultHistoryTurns = 6
	// DefaultSpecHeadLines bounds how much of the pinned spec is sent.
	DefaultSpecHeadLines = 60

	appDirName = ".codeassist"
)

// Config holds all codeassist configuration. It is loaded once per process
// and passed by value; nothing mutates it after Load returns.
type Config struct {
	General GeneralConfig    `toml:"general"`
	OpenAI  OpenAIConfig     `toml:"openai"`
	Azure   AzureConfig      `toml:"azure"`
	Pricing PricingOverrides `toml:"pricing"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultModel  string `toml:"default_model"`
	HomeDir       string `toml:"home_dir,omitempty"`
	HistoryTurns  int    `toml:"history_turns"`
	SpecHeadLines int    `toml:"spec_head_lines"`

	// RequestTimeoutSecs of 0 leaves the completion call unbounded.
	RequestTimeoutSecs int `toml:"request_timeout_secs,omitempty"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	APIKey  string `toml:"api_key,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
}

// AzureConfig holds Azure OpenAI settings.
type AzureConfig struct {
	APIKey     string `toml:"api_key,omitempty"`
	Endpoint   string `toml:"endpoint,omitempty"`
	APIVersion string `toml:"api_version,omitempty"`
}

// PricingOverrides allows user-defined pricing for specific models.
type PricingOverrides struct {
	Overrides map[string]ModelPricingOverride `toml:"overrides,omitempty"`
}

// ModelPricingOverride holds per-model pricing overrides.
type ModelPricingOverride struct {
	InputPerMTok  *float64 `toml:"input_per_mtok,omitempty"`
	OutputPerMTok *float64 `toml:"output_per_mtok,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultModel:  DefaultModel,
			HistoryTurns:  DefaultHistoryTurns,
			SpecHeadLines: DefaultSpecHeadLines,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "codeassist")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "codeassist")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the XDG-compliant cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "codeassist")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "codeassist")
}

// Load reads the config file and applies environment overrides.
func Load() (Config, error) {
	cfg, err := LoadFrom(Path())
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

// LoadFrom reads the config file at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user-chosen config path
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	cfg.normalize()

	return cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user-chosen config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

func applyEnv(cfg *Config) {
	if m := strings.TrimSpace(os.Getenv("CA_DEFAULT_MODEL")); m != "" {
		cfg.General.DefaultModel = m
	}
	if home := strings.TrimSpace(os.Getenv("CA_HOME")); home != "" {
		cfg.General.HomeDir = home
	}
}

func (c *Config) normalize() {
	if strings.TrimSpace(c.General.DefaultModel) == "" {
		c.General.DefaultModel = DefaultModel
	}
	if c.General.HistoryTurns <= 0 || c.General.HistoryTurns > DefaultHistoryTurns {
		c.General.HistoryTurns = DefaultHistoryTurns
	}
	if c.General.SpecHeadLines <= 0 {
		c.General.SpecHeadLines = DefaultSpecHeadLines
	}
}

// AppDir is the root for sessions and generated outputs (~/.codeassist by default).
func (c Config) AppDir() string {
	if c.General.HomeDir != "" {
		return expandHome(c.General.HomeDir)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, appDirName)
}

// SessionsDir holds one JSON session and one pinned spec per project.
func (c Config) SessionsDir() string {
	return filepath.Join(c.AppDir(), "sessions")
}

// OutputsDir holds generated artifacts.
func (c Config) OutputsDir() string {
	return filepath.Join(c.AppDir(), "outputs")
}

// IndexPath is the sqlite project index used by listings.
func (c Config) IndexPath() string {
	return filepath.Join(CacheDir(), "projects.db")
}

// RequestTimeout is the client-side bound on one completion call, 0 for none.
func (c Config) RequestTimeout() time.Duration {
	if c.General.RequestTimeoutSecs <= 0 {
		return 0
	}
	return time.Duration(c.General.RequestTimeoutSecs) * time.Second
}

// PricingTable returns the pricing table with this config's overrides applied.
func (c Config) PricingTable() PricingTable {
	return NewPricingTable(c.Pricing.Overrides)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
