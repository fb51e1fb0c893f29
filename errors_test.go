package changeling

import (
	"errors"
	"strings"
	"testing"
)

func TestRemoteError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &RemoteError{Message: "api call failed", Cause: cause}

	if !strings.Contains(err.Error(), "api call failed") {
		t.Errorf("Unexpected message: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected RemoteError to wrap its cause")
	}

	bare := &RemoteError{Message: "empty response"}
	if bare.Error() != "remote error: empty response" {
		t.Errorf("Unexpected message: %q", bare.Error())
	}
	if bare.Unwrap() != nil {
		t.Error("Expected nil unwrap without a cause")
	}
}

func TestRetryExhaustedError(t *testing.T) {
	cause := errors.New("timeout")
	err := &RetryExhaustedError{Attempts: 3, Cause: cause}

	want := "retries exhausted after 3 attempts: timeout"
	if err.Error() != want {
		t.Errorf("Got %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("Expected RetryExhaustedError to wrap its cause")
	}
}

func TestWriteError(t *testing.T) {
	cause := errors.New("permission denied")
	err := &WriteError{Path: "/out/de/changelog.md", Cause: cause}

	if !strings.Contains(err.Error(), "/out/de/changelog.md") {
		t.Errorf("Expected path in message, got %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected WriteError to wrap its cause")
	}
}

func TestErrorChain(t *testing.T) {
	remote := &RemoteError{Message: "rate limited"}
	exhausted := &RetryExhaustedError{Attempts: 5, Cause: remote}

	var re *RemoteError
	if !errors.As(exhausted, &re) {
		t.Error("Expected to find RemoteError through the chain")
	}

	var te *TranslationError
	if errors.As(exhausted, &te) {
		t.Error("Did not expect a TranslationError in the chain")
	}
}
