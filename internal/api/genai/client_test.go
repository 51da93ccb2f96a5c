package genai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pathwise-edu/pathwise/internal/domain"
)

func TestGenerate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("expected x-api-key header to be 'test-key', got %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("expected anthropic-version header to be set")
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{
  "id": "msg_01",
  "type": "message",
  "role": "assistant",
  "model": "claude-3-5-sonnet-20241022",
  "content": [
    {"type": "text", "text": "{\"narrative\":\"plan\""},
    {"type": "text", "text": ",\"phases\":[]}"}
  ],
  "stop_reason": "end_turn",
  "usage": {"input_tokens": 120, "output_tokens": 48}
}`)
	}))
	defer ts.Close()

	c := NewClient("test-key", WithBaseURL(ts.URL))
	raw, err := c.Generate(context.Background(), "build me a roadmap")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if raw != `{"narrative":"plan","phases":[]}` {
		t.Errorf("Generate() = %q", raw)
	}
}

func TestCreateMessage_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind domain.GenerationErrorKind
		wantMsg  string
	}{
		{
			name:     "rate limited",
			status:   http.StatusTooManyRequests,
			body:     `{"type":"error","error":{"type":"rate_limit_error","message":"Too many requests"}}`,
			wantKind: domain.GenerationRateLimit,
			wantMsg:  "Too many requests",
		},
		{
			name:     "bad api key",
			status:   http.StatusUnauthorized,
			body:     `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`,
			wantKind: domain.GenerationAuth,
			wantMsg:  "invalid x-api-key",
		},
		{
			name:     "forbidden",
			status:   http.StatusForbidden,
			body:     `{"type":"error","error":{"type":"permission_error","message":"not allowed"}}`,
			wantKind: domain.GenerationAuth,
			wantMsg:  "not allowed",
		},
		{
			name:     "overloaded",
			status:   529,
			body:     `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`,
			wantKind: domain.GenerationProvider,
			wantMsg:  "Overloaded",
		},
		{
			name:     "gateway timeout",
			status:   http.StatusGatewayTimeout,
			body:     "upstream timed out",
			wantKind: domain.GenerationTimeout,
			wantMsg:  "upstream timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			c := NewClient("test-key", WithBaseURL(ts.URL))
			_, err := c.Generate(context.Background(), "prompt")
			if err == nil {
				t.Fatal("expected error")
			}

			var genErr *domain.GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("expected GenerationError, got %T: %v", err, err)
			}
			if genErr.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", genErr.Kind, tt.wantKind)
			}
			if genErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", genErr.StatusCode, tt.status)
			}
			if got := genErr.Message; !strings.Contains(got, tt.wantMsg) {
				t.Errorf("Message = %q, want it to contain %q", got, tt.wantMsg)
			}
		})
	}
}

func TestGenerate_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()

	c := NewClient("test-key", WithBaseURL(ts.URL), WithTimeout(50*time.Millisecond))
	_, err := c.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected timeout error")
	}

	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %T: %v", err, err)
	}
	if genErr.Kind != domain.GenerationTimeout {
		t.Errorf("Kind = %v, want %v", genErr.Kind, domain.GenerationTimeout)
	}
	if !genErr.Transient() {
		t.Error("timeouts must be transient")
	}
}

func TestGenerate_ConnectionRefused(t *testing.T) {
	// A closed server port yields a transport classification.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := NewClient("test-key", WithBaseURL(url))
	_, err := c.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected transport error")
	}

	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %T: %v", err, err)
	}
	if genErr.Kind != domain.GenerationTransport {
		t.Errorf("Kind = %v, want %v", genErr.Kind, domain.GenerationTransport)
	}
}

func TestGenerate_MalformedEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json at all")
	}))
	defer ts.Close()

	c := NewClient("test-key", WithBaseURL(ts.URL))
	_, err := c.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error for malformed envelope")
	}

	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %T: %v", err, err)
	}
	if genErr.Kind != domain.GenerationProvider {
		t.Errorf("Kind = %v, want %v", genErr.Kind, domain.GenerationProvider)
	}
}
