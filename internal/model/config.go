package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultBaseURL is the remote todo API used when no override is configured.
const DefaultBaseURL = "https://fe-test-api.nwappservice.com"

// APIConfig holds settings for the remote todo API.
type APIConfig struct {
	// BaseURL is the root URL every request path is appended to.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds a single HTTP round trip.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// StorageConfig holds local file locations.
type StorageConfig struct {
	// DataDir holds the notification history database and the log file.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`

	// CredentialsDir is used by the file keyring backend when no
	// system keychain is available.
	CredentialsDir string `mapstructure:"credentials_dir" yaml:"credentials_dir"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// Theme is "default" (detect), "dark", or "light".
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DatabasePath returns the location of the notification history database.
func (c *AppConfig) DatabasePath() string {
	return filepath.Join(c.Storage.DataDir, "history.db")
}

// LogPath returns the location of the API diagnostics log.
func (c *AppConfig) LogPath() string {
	return filepath.Join(c.Storage.DataDir, "todoclient.log")
}

// configDir returns ~/.config/todoclient, falling back to the working
// directory when the home directory cannot be resolved.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "todoclient")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/todoclient/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dir := configDir()
	return &AppConfig{
		API: APIConfig{
			BaseURL:    DefaultBaseURL,
			TimeoutSec: 30,
		},
		Storage: StorageConfig{
			DataDir:        dir,
			CredentialsDir: filepath.Join(dir, "credentials"),
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with TODOCLIENT_ override file values
// (e.g. TODOCLIENT_API_BASE_URL). If the file does not exist, defaults
// plus environment overrides are returned.
func LoadConfig(path string) (*AppConfig, error) {
	defaults := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TODOCLIENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("api.base_url", defaults.API.BaseURL)
	v.SetDefault("api.timeout_sec", defaults.API.TimeoutSec)
	v.SetDefault("storage.data_dir", defaults.Storage.DataDir)
	v.SetDefault("storage.credentials_dir", defaults.Storage.CredentialsDir)
	v.SetDefault("display.theme", defaults.Display.Theme)

	if err := v.ReadInConfig(); err != nil {
		_, pathErr := err.(*os.PathError)
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !pathErr && !notFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.TimeoutSec <= 0 {
		cfg.API.TimeoutSec = defaults.API.TimeoutSec
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("storage", cfg.Storage)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
