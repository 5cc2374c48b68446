package domain

import (
	"errors"
	"fmt"
)

var (
	ErrResultNotFound = errors.New("user result not found")
	ErrInvalidPayload = errors.New("invalid image payload")
)

// NoPromptError reports a tribe that exists but has no generation prompt
// configured. Prompts are curated per tribe by operators, so this is a
// deployment problem rather than a caller mistake.
type NoPromptError struct {
	Tribe string
}

func (e *NoPromptError) Error() string {
	return fmt.Sprintf("tribe %q has no image generation prompt configured", e.Tribe)
}
