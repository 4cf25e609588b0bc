package httpnarrate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/discochess/coach/internal/narrate"
)

func TestClient_Narrate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("messages = %+v, want system + user pair", req.Messages)
		}

		json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{{Message: chatMessage{Role: "assistant", Content: "  Play longer time controls.  "}}},
		})
	}))
	defer srv.Close()

	client, err := New(Config{Endpoint: srv.URL, APIKey: "test-key", Model: "test-model"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	text, err := client.Narrate(context.Background(), narrate.Request{Scope: narrate.ScopeGame, Blunders: 2})
	if err != nil {
		t.Fatalf("Narrate() error = %v", err)
	}
	if text != "Play longer time controls." {
		t.Errorf("Narrate() = %q, want trimmed suggestion", text)
	}
}

func TestClient_Narrate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := New(Config{Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = client.Narrate(context.Background(), narrate.Request{})
	if !errors.Is(err, narrate.ErrUnavailable) {
		t.Errorf("Narrate() error = %v, want ErrUnavailable", err)
	}
}

func TestClient_Narrate_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	client, err := New(Config{Endpoint: srv.URL, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = client.Narrate(context.Background(), narrate.Request{})
	if !errors.Is(err, narrate.ErrUnavailable) {
		t.Errorf("Narrate() error = %v, want ErrUnavailable", err)
	}
}

func TestNew_RequiresEndpoint(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New() with empty endpoint = nil error, want error")
	}
}
