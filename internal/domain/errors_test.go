package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerationError_Error(t *testing.T) {
	e := NewGenerationError(GenerationRateLimit, "Too many requests").WithStatusCode(429)
	msg := e.Error()
	if !strings.Contains(msg, "rate_limit") || !strings.Contains(msg, "429") {
		t.Errorf("Error() = %q", msg)
	}

	bare := NewGenerationError(GenerationTransport, "connection refused")
	if strings.Contains(bare.Error(), "status") {
		t.Errorf("Error() without status = %q", bare.Error())
	}
}

func TestGenerationError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	e := NewGenerationError(GenerationTransport, "request failed").WithCause(cause)

	if !errors.Is(e, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestGenerationError_Transient(t *testing.T) {
	tests := []struct {
		kind GenerationErrorKind
		want bool
	}{
		{GenerationTransport, true},
		{GenerationTimeout, true},
		{GenerationRateLimit, true},
		{GenerationProvider, true},
		{GenerationAuth, false},
	}
	for _, tt := range tests {
		e := NewGenerationError(tt.kind, "x")
		if got := e.Transient(); got != tt.want {
			t.Errorf("Transient(%s) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}
