package changeling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func TestBreakerCompleter_PassesThrough(t *testing.T) {
	mock := &mockCompleter{response: "Hallo."}
	completer := NewBreakerCompleter(mock, DefaultBreakerConfig())

	result, err := completer.Complete(context.Background(), CompletionRequest{Content: "Hello."})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result != "Hallo." {
		t.Errorf("Got %q", result)
	}
	if completer.State() != gobreaker.StateClosed {
		t.Errorf("Expected closed state, got %v", completer.State())
	}
}

func TestBreakerCompleter_OpensAfterConsecutiveFailures(t *testing.T) {
	mock := &mockCompleter{failFirst: 100}
	completer := NewBreakerCompleter(mock, BreakerConfig{MaxFailures: 3, OpenFor: time.Minute})

	for i := 0; i < 3; i++ {
		if _, err := completer.Complete(context.Background(), CompletionRequest{Content: "x"}); err == nil {
			t.Fatalf("Call %d: expected error", i)
		}
	}

	if completer.State() != gobreaker.StateOpen {
		t.Fatalf("Expected open state, got %v", completer.State())
	}

	callsBefore := mock.calls
	_, err := completer.Complete(context.Background(), CompletionRequest{Content: "x"})

	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("Expected *RemoteError while open, got %v", err)
	}
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Error("Expected ErrOpenState in the chain")
	}
	if mock.calls != callsBefore {
		t.Error("Open breaker must not reach the completer")
	}
}

func TestBreakerCompleter_RecoversAfterTimeout(t *testing.T) {
	mock := &mockCompleter{failFirst: 2, response: "Hallo."}
	completer := NewBreakerCompleter(mock, BreakerConfig{MaxFailures: 2, OpenFor: 20 * time.Millisecond})

	for i := 0; i < 2; i++ {
		completer.Complete(context.Background(), CompletionRequest{Content: "x"})
	}
	if completer.State() != gobreaker.StateOpen {
		t.Fatalf("Expected open state, got %v", completer.State())
	}

	time.Sleep(30 * time.Millisecond)

	result, err := completer.Complete(context.Background(), CompletionRequest{Content: "Hello."})
	if err != nil {
		t.Fatalf("Probe after timeout should succeed: %v", err)
	}
	if result != "Hallo." {
		t.Errorf("Got %q", result)
	}
}

func TestBreakerCompleter_ZeroConfigUsesDefaults(t *testing.T) {
	mock := &mockCompleter{response: "ok"}
	completer := NewBreakerCompleter(mock, BreakerConfig{})

	if _, err := completer.Complete(context.Background(), CompletionRequest{Content: "x"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

var _ Completer = (*BreakerCompleter)(nil)
