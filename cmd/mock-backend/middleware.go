package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// middleware wraps an http.Handler.
type middleware func(http.Handler) http.Handler

// chain composes middleware: chain(a, b, c)(h) is a(b(c(h))).
func chain(middlewares ...middleware) middleware {
	return func(next http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

// requestIDFromContext returns the request ID, or "" when none is set.
func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// requestID takes the ID from the X-Request-ID header or generates one, and
// echoes it in the response.
func requestID() middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				b := make([]byte, 16)
				rand.Read(b)
				id = hex.EncodeToString(b)
			}
			w.Header().Set("X-Request-ID", id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
		})
	}
}

// logging emits one structured log entry per request.
func logging(logger *slog.Logger) middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.LogAttrs(r.Context(), slog.LevelInfo, "request completed",
				slog.String("request_id", requestIDFromContext(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// recovery turns a handler panic into a 500 error response.
func recovery() middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("handler panic", "request_id", requestIDFromContext(r.Context()), "panic", rec)
					writeError(w, http.StatusInternalServerError, fmt.Sprintf("internal server error: %v", rec))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// apiKeyAuth rejects /v1/ requests whose bearer token is not one of keys.
// Keys are hashed up front and compared in constant time. With no keys,
// every request passes.
func apiKeyAuth(keys []string) middleware {
	hashes := make([][32]byte, 0, len(keys))
	for _, k := range keys {
		hashes = append(hashes, sha256.Sum256([]byte(k)))
	}

	return func(next http.Handler) http.Handler {
		if len(hashes) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/v1/") {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if ok && token != "" {
				sum := sha256.Sum256([]byte(token))
				for _, h := range hashes {
					if subtle.ConstantTimeCompare(sum[:], h[:]) == 1 {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			writeErrorType(w, http.StatusUnauthorized, "invalid_api_key", "incorrect API key provided")
		})
	}
}
