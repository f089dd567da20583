package config

import "time"

type Limits struct {
	MaxContextSize  int             `yaml:"max_context_size" validate:"required,min=1000,max=1000000"`
	FragmentCap     int             `yaml:"fragment_cap" validate:"required,min=100,max=1000000"`
	MaxTokens       int             `yaml:"max_tokens" validate:"required,min=1000,max=200000"`
	ReasoningBudget int             `yaml:"reasoning_budget" validate:"min=0,max=100000"`
	MaxRetries      int             `yaml:"max_retries" validate:"required,min=0,max=10"`
	TotalTimeout    time.Duration   `yaml:"total_timeout" validate:"required,min=1m,max=24h"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" validate:"required"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"required,min=1,max=1000"`
	BurstSize         int `yaml:"burst_size" validate:"required,min=1,max=100"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxContextSize:  50000,
		FragmentCap:     5000,
		MaxTokens:       32000,
		ReasoningBudget: 30000,
		MaxRetries:      3,
		TotalTimeout:    6 * time.Hour,
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 30,
			BurstSize:         15,
		},
	}
}
