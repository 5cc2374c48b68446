package image

import "context"

// GenerateRequest describes a normalized request passed to any image provider.
type GenerateRequest struct {
	Prompt    string
	Quantity  int
	Photo     []byte
	PhotoMIME string
	RequestID string
}

// Asset represents a generated image.
type Asset struct {
	Data   []byte
	Format string
}

// Generator is the contract implemented by image providers.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) ([]Asset, error)
}

// MaxQuantity bounds how many images a single request may produce.
const MaxQuantity = 4

// ClampQuantity normalizes a requested image count into the supported range.
func ClampQuantity(quantity int) int {
	if quantity <= 0 {
		return 1
	}
	if quantity > MaxQuantity {
		return MaxQuantity
	}
	return quantity
}
