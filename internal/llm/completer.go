// Package llm defines the text-completion contract used by every agent stage.
package llm

import "context"

// Completer produces a completion for a single prompt. Missing credential
// configuration is surfaced as a readable sentinel string in the returned
// text, never as an error; errors are reserved for upstream service
// failures, which abort the current turn.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
