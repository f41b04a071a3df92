package providers

import (
	"context"
)

// Config represents one text-generation request to an LLM provider.
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
}

// Provider defines the interface for an LLM provider used by the document
// analysis service.
type Provider interface {
	ExtractText(ctx context.Context, config Config) (string, error)
}
