package config

import (
	"strings"
	"testing"
	"time"
)

func validTestConfig() Config {
	return Config{
		AI: AIConfig{
			APIKey:  "sk-1234567890abcdef1234567890abcdef",
			Model:   "claude-3-5-sonnet-20241022",
			BaseURL: "https://api.anthropic.com",
			Timeout: 900,
		},
		Paths: PathsConfig{
			OutputDir: "output",
		},
		Limits: DefaultLimits(),
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "API key too short",
			mutate:  func(c *Config) { c.AI.APIKey = "short" },
			wantErr: true,
			errMsg:  "APIKey",
		},
		{
			name:    "invalid base URL",
			mutate:  func(c *Config) { c.AI.BaseURL = "not-a-url" },
			wantErr: true,
			errMsg:  "BaseURL",
		},
		{
			name:    "timeout too high",
			mutate:  func(c *Config) { c.AI.Timeout = 5000 },
			wantErr: true,
			errMsg:  "Timeout",
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.Limits.MaxRetries = -1 },
			wantErr: true,
			errMsg:  "MaxRetries",
		},
		{
			name:    "context window too small",
			mutate:  func(c *Config) { c.Limits.MaxContextSize = 10 },
			wantErr: true,
			errMsg:  "MaxContextSize",
		},
		{
			name:    "rate limit burst missing",
			mutate:  func(c *Config) { c.Limits.RateLimit.BurstSize = 0 },
			wantErr: true,
			errMsg:  "BurstSize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(&cfg)

			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("validate() error = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := validTestConfig()
	cfg.Paths.OutputDir = ""
	cfg.Limits = Limits{}

	if err := cfg.validate(); err != nil {
		t.Fatalf("validate with empty paths/limits should apply defaults, got %v", err)
	}
	if cfg.Paths.OutputDir == "" {
		t.Error("output dir default not applied")
	}
	if cfg.Limits.MaxContextSize != 50000 || cfg.Limits.FragmentCap != 5000 {
		t.Errorf("limit defaults not applied: %+v", cfg.Limits)
	}
}

func TestDefaultLimits(t *testing.T) {
	limits := DefaultLimits()

	if limits.MaxTokens != 32000 {
		t.Errorf("max tokens = %d, want 32000", limits.MaxTokens)
	}
	if limits.TotalTimeout != 6*time.Hour {
		t.Errorf("total timeout = %v", limits.TotalTimeout)
	}

	cfg := validTestConfig()
	cfg.Limits = limits
	if err := cfg.validate(); err != nil {
		t.Errorf("DefaultLimits() should produce a valid config, got %v", err)
	}
}

func TestExpandTilde(t *testing.T) {
	if got := expandTilde("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path changed: %q", got)
	}
	if got := expandTilde("~/books"); strings.HasPrefix(got, "~") {
		t.Errorf("tilde not expanded: %q", got)
	}
}
