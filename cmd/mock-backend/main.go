// Command mock-backend runs a deterministic OpenCog-compatible server for
// local testing of aicogchat. It serves chat completions (plain and SSE
// streamed, with a tool call when tools are supplied), embeddings derived
// from a hash of each input, and Prometheus metrics.
//
// Configuration:
//
//	MOCK_PORT     - Listen port (default: 5000)
//	MOCK_API_KEYS - Comma-separated bearer keys required on /v1/ (optional)
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "5000"
	}

	var keys []string
	for _, k := range strings.Split(os.Getenv("MOCK_API_KEYS"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}

	srv := &http.Server{Addr: ":" + port, Handler: newHandler(keys...)}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock backend starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}
