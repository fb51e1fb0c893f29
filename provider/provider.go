// Package provider defines the completion-service interface and implementations.
package provider

import "github.com/loclab/changeling"

// Completer is the interface for remote text-completion backends.
// This is an alias to the main package interface for convenience.
type Completer = changeling.Completer

// CompletionRequest is an alias to the main package type.
type CompletionRequest = changeling.CompletionRequest
