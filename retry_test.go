package changeling

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithRetry_SuccessFirstAttempt(t *testing.T) {
	calls := 0
	result, err := WithRetry(context.Background(), DefaultRetryConfig(), func() (string, error) {
		calls++
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("Expected 'ok', got %q", result)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   time.Millisecond,
		MaxDelay:    time.Second,
	}

	calls := 0
	start := time.Now()
	result, err := WithRetry(context.Background(), cfg, func() (string, error) {
		calls++
		if calls <= 2 {
			return "", errors.New("transient failure")
		}
		return "done", nil
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result != "done" {
		t.Errorf("Expected 'done', got %q", result)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
	// Two backoffs occurred: base*2 and base*4.
	if elapsed < 6*time.Millisecond {
		t.Errorf("Expected at least 6ms of backoff, got %v", elapsed)
	}
}

func TestWithRetry_Exhaustion(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    time.Second,
	}

	calls := 0
	cause := errors.New("persistent failure")
	_, err := WithRetry(context.Background(), cfg, func() (string, error) {
		calls++
		return "", cause
	})

	if err == nil {
		t.Fatal("Expected error after exhaustion")
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}

	var exhausted *RetryExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Expected *RetryExhaustedError, got %T", err)
	}
	if exhausted.Attempts != 3 {
		t.Errorf("Expected Attempts=3, got %d", exhausted.Attempts)
	}
	if !errors.Is(err, cause) {
		t.Error("Expected exhaustion error to wrap the last failure")
	}
}

func TestWithRetry_BackoffCapped(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts: 4,
		BaseDelay:   5 * time.Millisecond,
		MaxDelay:    time.Millisecond,
	}

	start := time.Now()
	_, err := WithRetry(context.Background(), cfg, func() (string, error) {
		return "", errors.New("always fails")
	})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("Expected error")
	}
	// Uncapped delays would be 10+20+40ms; with the 1ms cap the whole
	// run finishes well under that.
	if elapsed > 50*time.Millisecond {
		t.Errorf("Expected capped backoff, elapsed %v", elapsed)
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := WithRetry(ctx, DefaultRetryConfig(), func() (string, error) {
		calls++
		return "ok", nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no calls after cancellation, got %d", calls)
	}
}

func TestWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Minute,
		MaxDelay:    time.Hour,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	calls := 0
	_, err := WithRetry(ctx, cfg, func() (string, error) {
		calls++
		return "", errors.New("fail")
	})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected context.DeadlineExceeded, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call before cancellation, got %d", calls)
	}
}

func TestWithRetry_MinimumOneAttempt(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 0}

	calls := 0
	_, err := WithRetry(context.Background(), cfg, func() (string, error) {
		calls++
		return "", errors.New("fail")
	})

	if calls != 1 {
		t.Errorf("Expected exactly 1 call, got %d", calls)
	}
	var exhausted *RetryExhaustedError
	if !errors.As(err, &exhausted) || exhausted.Attempts != 1 {
		t.Errorf("Expected exhaustion after 1 attempt, got %v", err)
	}
}

func TestRetryingCompleter(t *testing.T) {
	mock := &mockCompleter{failFirst: 2, response: "Hallo."}
	completer := NewRetryingCompleter(mock, RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
	})

	result, err := completer.Complete(context.Background(), CompletionRequest{
		Instruction: "Translate to German.",
		Content:     "Hello.",
	})

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result != "Hallo." {
		t.Errorf("Expected 'Hallo.', got %q", result)
	}
	if mock.calls != 3 {
		t.Errorf("Expected 3 calls, got %d", mock.calls)
	}
}

var _ Completer = (*RetryingCompleter)(nil)
