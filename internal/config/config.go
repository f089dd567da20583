// Package config loads and validates the storyteller configuration from a
// YAML file, with environment variables filling in secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AI     AIConfig    `yaml:"ai" validate:"required"`
	Paths  PathsConfig `yaml:"paths" validate:"required"`
	Limits Limits      `yaml:"limits" validate:"required"`
}

type AIConfig struct {
	APIKey  string `yaml:"api_key" validate:"required,min=20"`
	Model   string `yaml:"model" validate:"required"`
	BaseURL string `yaml:"base_url" validate:"required,url"`
	Timeout int    `yaml:"timeout" validate:"required,min=10,max=3600"`
}

type PathsConfig struct {
	OutputDir string `yaml:"output_dir" validate:"required,dirpath"`
}

// Load reads the config file, applies environment overrides and defaults,
// and validates the result. A missing config file yields defaults, not an
// error: the only hard requirement is an API key.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configPath := getConfigPath()

	var cfg Config
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		cfg = defaultConfig()
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if cfg.AI.APIKey == "" || cfg.AI.APIKey == "${ANTHROPIC_API_KEY}" {
		if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
			cfg.AI.APIKey = apiKey
		} else if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
			cfg.AI.APIKey = apiKey
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		AI: AIConfig{
			Model:   "claude-3-5-sonnet-20241022",
			BaseURL: "https://api.anthropic.com",
			Timeout: 900, // long-form chapters can take many minutes
		},
		Limits: DefaultLimits(),
	}
}

func getConfigPath() string {
	// 1. Explicit config path via environment variable
	if path := os.Getenv("STORYTELLER_CONFIG"); path != "" {
		return path
	}

	// 2. XDG_CONFIG_HOME (XDG Base Directory Specification)
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "storyteller", "config.yaml")
	}

	// 3. Default to ~/.config/storyteller/config.yaml
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "storyteller", "config.yaml")
}

// expandTilde expands a leading ~/ to the user's home directory.
func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func (c *Config) validate() error {
	if c.Paths.OutputDir == "" {
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			c.Paths.OutputDir = filepath.Join(xdgData, "storyteller", "output")
		} else {
			home, _ := os.UserHomeDir()
			c.Paths.OutputDir = filepath.Join(home, ".local", "share", "storyteller", "output")
		}
	} else {
		c.Paths.OutputDir = expandTilde(c.Paths.OutputDir)
	}

	if c.Limits.MaxContextSize == 0 {
		c.Limits = DefaultLimits()
	}

	validate := validator.New()

	// The output directory is created on demand, so any non-empty path is
	// acceptable here.
	validate.RegisterValidation("dirpath", func(fl validator.FieldLevel) bool {
		return fl.Field().String() != ""
	})

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Save writes the config back to disk with the API key replaced by an
// environment-variable placeholder.
func Save(cfg *Config, configPath string) error {
	cfgToSave := *cfg
	cfgToSave.AI.APIKey = "${ANTHROPIC_API_KEY}"

	data, err := yaml.Marshal(&cfgToSave)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(configPath, data, 0600)
}
