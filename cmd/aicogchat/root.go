package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cogpy/aicogchat/pkg/config"
	"github.com/cogpy/aicogchat/pkg/debug"
	"github.com/cogpy/aicogchat/pkg/engine"
	"github.com/cogpy/aicogchat/pkg/observability"
)

// app holds the state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	engine *engine.Engine
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aicogchat",
		Short: "Chat with OpenCog LLM backends",
		Long: `aicogchat sends chat completions and embeddings requests to
OpenAI-compatible OpenCog backends and prints the results.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (TRACE, DEBUG, INFO, WARN, ERROR)")

	cmd.AddCommand(newChatCmd(a), newEmbedCmd(a), newModelsCmd(a))
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	debug.Init(debug.Options{
		Categories: cfg.Log.Debug,
		Level:      level,
		Format:     cfg.Log.Format,
		Output:     cmd.ErrOrStderr(),
	})

	eng, err := engine.NewFromConfig(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	a.engine = eng
	return nil
}

// teardown releases the engine and writes the metrics textfile, if one is
// configured.
func (a *app) teardown() {
	if a.engine != nil {
		if err := a.engine.Close(); err != nil {
			slog.Warn("closing engine", "error", err)
		}
	}
	if a.cfg != nil && a.cfg.Metrics.Textfile != "" {
		if err := observability.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			slog.Warn("writing metrics textfile", "path", a.cfg.Metrics.Textfile, "error", err)
		}
	}
}
