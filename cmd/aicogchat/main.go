// Command aicogchat talks to OpenCog chat and embeddings backends.
//
//	aicogchat chat "What is an atomspace?"
//	aicogchat chat --system "Answer briefly" --no-stream < prompt.txt
//	aicogchat embed "first text" "second text"
//	aicogchat models
//
// Configuration is read from --config, AICOGCHAT_CONFIG, ./config.yaml or
// $XDG_CONFIG_HOME/aicogchat/config.yaml. Without a config file a single
// "opencog" client at http://localhost:5000/v1 is used.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := run(); err != nil {
		slog.Error("aicogchat failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{}
	defer a.teardown()

	cmd := newRootCmd(a)
	cmd.SilenceUsage = true
	return cmd.ExecuteContext(ctx)
}
