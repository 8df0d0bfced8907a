package providers

import "context"

// TextGenerator is the text-generation capability consumed by the extraction
// and recommendation engines. Implementations are treated as unreliable: any
// error or malformed completion triggers the caller's deterministic fallback.
type TextGenerator interface {
	// Generate returns a completion for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}
