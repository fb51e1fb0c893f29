package provider

import (
	"context"
	"fmt"
)

// MockCompleter is a mock completion backend for testing.
type MockCompleter struct {
	Translations map[string]string  // Map of source content to translation
	FailFirst    int                // Fail this many calls before succeeding
	CallCount    int                // Number of times Complete was called
	LastRequest  *CompletionRequest // Last request received
}

// NewMockCompleter creates a new mock completer with default translations.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{
		Translations: map[string]string{
			"Hello.":        "Hallo.",
			"World.":        "Welt.",
			"Added things.": "Dinge hinzugefügt.",
		},
	}
}

// Complete returns mock translations, bracketing unknown content.
func (m *MockCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	m.CallCount++
	m.LastRequest = &req

	if m.CallCount <= m.FailFirst {
		return "", fmt.Errorf("mock failure %d of %d", m.CallCount, m.FailFirst)
	}

	if translation, ok := m.Translations[req.Content]; ok {
		return translation, nil
	}
	return fmt.Sprintf("[%s]", req.Content), nil
}

// Reset resets the call count and last request.
func (m *MockCompleter) Reset() {
	m.CallCount = 0
	m.LastRequest = nil
}

// Verify MockCompleter implements Completer
var _ Completer = (*MockCompleter)(nil)
