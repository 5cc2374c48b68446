package domain

import "context"

// ResultRepository resolves onboarding results to their tribe prompt data.
type ResultRepository interface {
	// TribePromptByResult returns the tribe name and configured prompt for
	// the given result identifier. It returns ErrResultNotFound when no
	// result exists under that identifier.
	TribePromptByResult(ctx context.Context, resultID string) (*TribePrompt, error)
}
