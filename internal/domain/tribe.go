package domain

import "time"

// Tribe is a classification bucket assigned during onboarding. Each tribe
// carries an operator-curated prompt used when generating imagery for its
// members.
type Tribe struct {
	ID                    string
	Name                  string
	ImageGenerationPrompt *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// UserResult is the durable record of a completed onboarding classification.
type UserResult struct {
	ID        string
	TribeID   string
	CreatedAt time.Time
}

// TribePrompt is the read-only projection consumed by the generation
// pipeline: the tribe a result resolved to and that tribe's prompt, when one
// is configured.
type TribePrompt struct {
	TribeName string
	Prompt    *string
}
