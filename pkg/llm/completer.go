// Package llm defines the contract to an optional external completion
// service. The retrieval core never depends on one being present or
// reachable; callers degrade to evidence-only output when it is not.
package llm

import "context"

// Completer produces a completion from a system prompt and a user prompt.
type Completer interface {
	// Complete returns the model's text for the given prompts.
	Complete(ctx context.Context, system, user string) (string, error)

	// Close releases any resources held by the completer.
	Close() error
}
