// Package config loads and persists the application configuration from a
// TOML file, with XDG-style defaults for the config and data directories.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// envAPIKey overrides the configured provider API key when set.
const envAPIKey = "TWITTERAPI_IO_KEY"

// Config is the whole application configuration, loaded once at startup.
// The web command re-reads it when the file changes on disk.
type Config struct {
	DataDir  string         `toml:"data_dir"`
	Server   ServerConfig   `toml:"server"`
	Provider ProviderConfig `toml:"provider"`
	Auth     AuthConfig     `toml:"auth"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

type ProviderConfig struct {
	APIKey      string   `toml:"api_key"`
	BaseURL     string   `toml:"base_url"`
	Timeout     Duration `toml:"timeout"`
	PageBudget  int      `toml:"page_budget"`
	DefaultMode string   `toml:"default_mode"`
}

// AuthConfig configures the optional basic-auth gate. Auth is disabled
// while Password is empty. The viewer account, when configured, can search
// and export but not mutate accounts or history.
type AuthConfig struct {
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	ViewerUsername string `toml:"viewer_username"`
	ViewerPassword string `toml:"viewer_password"`
}

// Duration is a time.Duration that marshals as a string ("30s", "2m").
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// GetDefaultConfig returns a config with all defaults applied.
func GetDefaultConfig() (*Config, error) {
	dataDir, err := GetDefaultDataDir()
	if err != nil {
		return nil, fmt.Errorf("getting default data directory: %w", err)
	}
	cfg := &Config{DataDir: dataDir}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadConfig reads the config file at configPath. A missing file yields
// the defaults rather than an error so first runs work out of the box.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.DataDir == "" {
		dataDir, err := GetDefaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("getting default data directory: %w", err)
		}
		cfg.DataDir = dataDir
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Provider.Timeout.Duration == 0 {
		c.Provider.Timeout = Duration{30 * time.Second}
	}
	if c.Provider.PageBudget <= 0 {
		c.Provider.PageBudget = 2
	}
	if c.Provider.DefaultMode == "" {
		c.Provider.DefaultMode = "Latest"
	}
	if c.Auth.Username == "" {
		c.Auth.Username = "admin"
	}
	if key := os.Getenv(envAPIKey); key != "" {
		c.Provider.APIKey = key
	}
}

// SaveConfig writes the config to configPath as TOML.
func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the commented sample config to configPath.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(configPath, []byte(configTemplate), 0644)
}

// AccountsPath returns the curated account list file path.
func (c *Config) AccountsPath() string {
	return filepath.Join(c.DataDir, "accounts.json")
}

// HistoryPath returns the search-history log file path.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.jsonl")
}

// UserCachePath returns the user-info cache file path.
func (c *Config) UserCachePath() string {
	return filepath.Join(c.DataDir, "usercache.json")
}

// GetDefaultDataDir returns (and creates) the default data directory.
func GetDefaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	spotterDir := filepath.Join(dataDir, "spotter")
	if err := os.MkdirAll(spotterDir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory %s: %w", spotterDir, err)
	}
	return spotterDir, nil
}

// GetConfigDir returns (and creates) the configuration directory.
func GetConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	spotterConfigDir := filepath.Join(configDir, "spotter")
	if err := os.MkdirAll(spotterConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", spotterConfigDir, err)
	}
	return spotterConfigDir, nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
