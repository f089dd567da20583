// Package cli wires the storyteller commands. Each command builds a fresh
// engine over the seeded plot graph; generated chapters are exported to the
// configured output directory before the process exits.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vampirenirmal/storyteller/internal/agent"
	"github.com/vampirenirmal/storyteller/internal/config"
	"github.com/vampirenirmal/storyteller/internal/engine"
	"github.com/vampirenirmal/storyteller/internal/plot"
	"github.com/vampirenirmal/storyteller/internal/storage"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "storyteller",
	Short: "Storyteller - long-form narrative generation",
	Long: `Storyteller orchestrates LLM generation of novel chapters.

It tracks plot points and their dependencies, keeps a rolling context
window of recent narrative, and paces chapter length against targets.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

// Execute runs the root command.
func Execute() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Show detailed progress")
}

// setup loads the config and assembles the engine, generator and store.
func setup() (*config.Config, *engine.Engine, storage.Storage, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	client := agent.NewClient(cfg.AI.APIKey,
		agent.WithAPIConfig(cfg.AI.BaseURL, cfg.AI.Model),
		agent.WithTimeout(time.Duration(cfg.AI.Timeout)*time.Second),
		agent.WithRetry(cfg.Limits.MaxRetries),
		agent.WithRateLimit(cfg.Limits.RateLimit.RequestsPerMinute, cfg.Limits.RateLimit.BurstSize),
	)

	genCfg := agent.GenConfig{
		MaxTokens:               cfg.Limits.MaxTokens,
		Temperature:             0.9,
		EnableExtendedReasoning: cfg.Limits.ReasoningBudget > 0,
		ReasoningBudget:         cfg.Limits.ReasoningBudget,
	}
	eng := engine.New(client, plot.DefaultGraph(),
		engine.WithContextLimits(cfg.Limits.MaxContextSize, cfg.Limits.FragmentCap),
		engine.WithGenConfig(genCfg),
	)

	store := storage.NewFileSystem(cfg.Paths.OutputDir)
	return cfg, eng, store, nil
}
