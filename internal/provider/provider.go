// Package provider turns a prompt into an optimized rewrite through a hosted
// generative model, falling back across candidate models when one fails.
package provider

import (
	"context"

	"github.com/hpungsan/erde/internal/advisor"
)

// GenerateRequest is one attempt against one model.
type GenerateRequest struct {
	APIKey          string
	Model           string
	Prompt          string
	Temperature     float64
	MaxOutputTokens int
}

// Generator performs a single text generation call. Implementations return
// the raw response text, which may or may not be JSON.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req GenerateRequest) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return f(ctx, req)
}

// Request is a prompt to optimize.
type Request struct {
	// Prompt is the user's text. It becomes OriginalText on the result.
	Prompt string
	// Instructions are constraint directives appended before dispatch.
	Instructions string
	Config       advisor.OptimizationConfig
}

// Energy labels attached to every result.
const (
	EnergyHigh     = "High (Green)"
	EnergyModerate = "Moderate"
)

// OptimizationResult is the normalized outcome of a successful call.
type OptimizationResult struct {
	OriginalText        string  `json:"originalText"`
	OptimizedText       string  `json:"optimizedText"`
	OriginalTokens      int     `json:"originalTokens"`
	OptimizedTokens     int     `json:"optimizedTokens"`
	ReductionPercentage float64 `json:"reductionPercentage"`
	Explanation         string  `json:"explanation"`
	EnergySaved         string  `json:"energySaved"`
	UsedModel           string  `json:"usedModel"`
	MetricsEstimated    bool    `json:"metricsEstimated,omitempty"`
}
