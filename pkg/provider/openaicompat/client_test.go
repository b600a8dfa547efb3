package openaicompat

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cogpy/aicogchat/pkg/api"
	"github.com/cogpy/aicogchat/pkg/provider"
)

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClient_DoSendsHeadersAndBody(t *testing.T) {
	var gotAuth, gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t, DefaultConfig())
	req := &provider.Request{URL: srv.URL + "/chat/completions", Body: []byte(`{"model":"m"}`)}
	req.SetBearerAuth("secret")

	status, body, err := c.Do(context.Background(), req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if status != http.StatusTeapot {
		t.Errorf("status = %d, want %d", status, http.StatusTeapot)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %q", body)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotBody != `{"model":"m"}` {
		t.Errorf("request body = %q", gotBody)
	}
}

func TestClient_DoWithoutAPIKeyOmitsAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Error("unexpected Authorization header")
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, DefaultConfig())
	if _, _, err := c.Do(context.Background(), &provider.Request{URL: srv.URL}); err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestClient_StreamSetsAccept(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/event-stream" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	c := newTestClient(t, DefaultConfig())
	resp, err := c.Stream(context.Background(), &provider.Request{URL: srv.URL})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	defer resp.Body.Close()

	ev, err := NewSSEReader(resp.Body).Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ev.Data != "[DONE]" {
		t.Errorf("data = %q", ev.Data)
	}
}

func TestClient_ConnectionErrorIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := newTestClient(t, Config{Timeout: time.Second, ConnectTimeout: time.Second})
	_, _, err := c.Do(context.Background(), &provider.Request{URL: url})
	if !api.IsType(err, api.ErrorTypeTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestClient_TimeoutIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{Timeout: 20 * time.Millisecond})
	_, _, err := c.Do(context.Background(), &provider.Request{URL: srv.URL})
	if !api.IsType(err, api.ErrorTypeTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestNewClient_InvalidProxy(t *testing.T) {
	if _, err := NewClient(Config{Proxy: "not a url"}); err == nil {
		t.Error("expected error for invalid proxy")
	}
	c, err := NewClient(Config{Proxy: "http://127.0.0.1:3128"})
	if err != nil {
		t.Fatalf("unexpected error for valid proxy: %v", err)
	}
	c.Close()
}
