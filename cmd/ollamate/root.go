package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ollamate/ollamate/internal/config"
	"github.com/ollamate/ollamate/internal/ollama"
)

var (
	flagModel    string
	flagMarkdown bool
	flagCopy     bool
	flagNoFollow bool
	flagDebug    bool
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "ollamate [prompt]",
	Short: "Chat with a local Ollama model",
	Long: `Chat with a local Ollama model.

With no arguments ollamate starts an interactive session. Trailing
arguments are sent as a single prompt and the reply is printed to
stdout.

Examples:
  ollamate
  ollamate -m mistral-nemo "why is the sky blue?"
  ollamate -f "compare quicksort and mergesort"`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.Flags().StringVarP(&flagModel, "model", "m", "", "model to chat with (overrides chat.model)")
	rootCmd.Flags().BoolVarP(&flagMarkdown, "markdown", "f", false, "render replies as markdown in the pager")
	rootCmd.Flags().BoolVarP(&flagCopy, "copy", "s", false, "copy the final reply to the clipboard")
	rootCmd.Flags().BoolVar(&flagNoFollow, "no-follow-up", false, "do not send tool results back to the model")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads config, installs the process logger, and builds the API
// client from the resolved host.
func setup() (config.Config, *ollama.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg)})))

	host, err := ollama.ResolveHost(cfg.Ollama.Host)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("resolving ollama host: %w", err)
	}

	return cfg, ollama.New(host), nil
}

func logLevel(cfg config.Config) slog.Level {
	if flagDebug {
		return slog.LevelDebug
	}
	switch {
	case strings.EqualFold(cfg.Log.Level, "debug"):
		return slog.LevelDebug
	case strings.EqualFold(cfg.Log.Level, "info"):
		return slog.LevelInfo
	case strings.EqualFold(cfg.Log.Level, "error"):
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
