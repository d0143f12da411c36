package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q, want /api/generate", r.URL.Path)
		}
		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "llama3:8b" {
			t.Errorf("model = %q", req.Model)
		}
		if req.Stream {
			t.Error("stream = true, want false")
		}
		json.NewEncoder(w).Encode(GenerateResponse{
			Model:    req.Model,
			Response: `{"daily_schedule":[],"summary":"ok","date":"2025-01-15"}`,
			Done:     true,
		})
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL})
	got, err := client.Generate(context.Background(), "plan my day")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got == "" {
		t.Error("Generate() returned empty text")
	}
}

func TestGenerateModelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL})
	_, err := client.Generate(context.Background(), "x")
	if !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("Generate() error = %v, want ErrModelNotFound", err)
	}
}

func TestGenerateServerErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "model exploded"})
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL})
	_, err := client.Generate(context.Background(), "x")
	if err == nil {
		t.Fatal("Generate() succeeded on a 500")
	}
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("error type = %T, want *ClientError", err)
	}
	if clientErr.Message != "model exploded" {
		t.Errorf("message = %q, want the server's error text", clientErr.Message)
	}
}

func TestGenerateNotRunning(t *testing.T) {
	// A server that is immediately closed leaves nothing listening.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
	_, err := client.Generate(context.Background(), "x")
	if !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Generate() error = %v, want ErrNotRunning", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(ClientConfig{})
	if client.config.BaseURL != "http://localhost:11434" {
		t.Errorf("BaseURL = %q", client.config.BaseURL)
	}
	if client.config.Model != "llama3:8b" {
		t.Errorf("Model = %q", client.config.Model)
	}
	if client.config.Timeout != 120*time.Second {
		t.Errorf("Timeout = %v", client.config.Timeout)
	}
}
