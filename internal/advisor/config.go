// Package advisor implements the prompt efficiency heuristics: task type
// inference, output length budgeting, linting, follow-up and redundancy
// detection, the optimization gatekeeper and the energy impact estimate.
//
// Everything here is pure and synchronous. Callers re-run Analyze on every
// prompt edit; nothing in this package performs I/O.
package advisor

import (
	"fmt"
	"strings"
)

// AnswerDepth is the user-selected verbosity tier.
type AnswerDepth string

const (
	DepthConcise  AnswerDepth = "Concise"
	DepthStandard AnswerDepth = "Standard"
	DepthDetailed AnswerDepth = "Detailed"
)

// OptimizationMode steers how the upstream model rewrites a prompt.
type OptimizationMode string

const (
	ModeConcise       OptimizationMode = "Concise"
	ModeStructured    OptimizationMode = "Structured"
	ModeDeterministic OptimizationMode = "Deterministic"
)

// Model identifiers known to the estimator and the eco preset.
const (
	ModelFlash       = "gemini-3-flash-preview"
	ModelFlashLegacy = "gemini-2.5-flash-latest"
	ModelPro         = "gemini-3-pro-preview"
)

// OptimizationConfig is the per-session optimization setup.
type OptimizationConfig struct {
	Model                  string           `json:"model"`
	Temperature            float64          `json:"temperature"`
	AutoPilot              bool             `json:"autoPilot"`
	APIKey                 string           `json:"apiKey,omitempty"`
	AnticipatoryMode       bool             `json:"anticipatoryMode,omitempty"`
	OutputLengthConstraint int              `json:"outputLengthConstraint,omitempty"`
	AnswerDepth            AnswerDepth      `json:"answerDepth"`
	OptimizationMode       OptimizationMode `json:"optimizationMode"`
}

// DefaultConfig returns the configuration a fresh session starts with.
func DefaultConfig() OptimizationConfig {
	return OptimizationConfig{
		Model:            ModelFlash,
		Temperature:      0.7,
		AnswerDepth:      DepthStandard,
		OptimizationMode: ModeConcise,
	}
}

// MaxOutputLengthConstraint bounds an explicit output token budget.
const MaxOutputLengthConstraint = 65536

// Validate checks value ranges. Unknown depth or mode strings are rejected;
// empty ones are allowed and fall back to defaults downstream.
func (c OptimizationConfig) Validate() error {
	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1, got %g", c.Temperature)
	}
	switch c.AnswerDepth {
	case "", DepthConcise, DepthStandard, DepthDetailed:
	default:
		return fmt.Errorf("answerDepth must be one of: Concise, Standard, Detailed")
	}
	switch c.OptimizationMode {
	case "", ModeConcise, ModeStructured, ModeDeterministic:
	default:
		return fmt.Errorf("optimizationMode must be one of: Concise, Structured, Deterministic")
	}
	if c.OutputLengthConstraint < 0 || c.OutputLengthConstraint > MaxOutputLengthConstraint {
		return fmt.Errorf("outputLengthConstraint must be between 0 and %d", MaxOutputLengthConstraint)
	}
	return nil
}

// Redacted returns a copy without the API key override, for persistence.
func (c OptimizationConfig) Redacted() OptimizationConfig {
	c.APIKey = ""
	return c
}

// DepthFactor scales token budgets by answer depth.
// Anything other than Concise or Detailed counts as Standard.
func DepthFactor(depth AnswerDepth) float64 {
	switch depth {
	case DepthConcise:
		return 0.5
	case DepthDetailed:
		return 2
	default:
		return 1
	}
}

// ApplyLengthConstraint derives OutputLengthConstraint from the prompt and
// the configured depth.
func ApplyLengthConstraint(cfg OptimizationConfig, prompt string) OptimizationConfig {
	cfg.OutputLengthConstraint = OutputLength(prompt, cfg.AnswerDepth).MaxTokens
	return cfg
}

// IsEco reports whether the efficiency lock is engaged.
func IsEco(cfg OptimizationConfig) bool {
	return cfg.AnswerDepth == DepthConcise &&
		strings.Contains(cfg.Model, "flash") &&
		cfg.Temperature == 0.1
}

// ToggleEfficiencyLock engages the eco preset, or releases it when already on.
func ToggleEfficiencyLock(cfg OptimizationConfig) OptimizationConfig {
	if IsEco(cfg) {
		cfg.Temperature = 0.7
		cfg.AnswerDepth = DepthStandard
		return cfg
	}
	cfg.Model = ModelFlash
	cfg.AnswerDepth = DepthConcise
	cfg.OptimizationMode = ModeConcise
	cfg.Temperature = 0.1
	cfg.AutoPilot = false
	return cfg
}

// EcoPreset returns cfg with the efficiency lock engaged.
func EcoPreset(cfg OptimizationConfig) OptimizationConfig {
	if IsEco(cfg) {
		return cfg
	}
	return ToggleEfficiencyLock(cfg)
}
