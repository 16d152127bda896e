package advisor

import "strconv"

// Energy per 1000 tokens in Wh.
const (
	whFlash       = 0.6
	whFlashLegacy = 0.5
	whPro         = 3.5
	whUnknown     = 2.0

	// autoPilotProChars is the prompt length above which the estimate assumes
	// the pro tier under autoPilot.
	autoPilotProChars = 500

	gramsPerKWh = 200
)

// Impact is the estimated cost of one optimization call.
type Impact struct {
	Wh              string  `json:"wh"`
	Carbon          string  `json:"carbon"`
	PredictedModel  string  `json:"predictedModel,omitempty"`
	BaseWh          float64 `json:"baseWh"`
	TempPenalty     float64 `json:"tempPenalty"`
	EstimatedTokens float64 `json:"estimatedTokens"`
}

// EstimateImpact converts config and prompt length into an energy and carbon
// estimate. Wh is formatted with 4 decimals, carbon grams with 5.
func EstimateImpact(cfg OptimizationConfig, promptLength int) Impact {
	model, baseWh := PredictModel(cfg, promptLength)

	tempPenalty := 1 + cfg.Temperature*0.1
	tokens := float64(promptLength) / 4 * DepthFactor(cfg.AnswerDepth)
	wh := baseWh * (tokens / 1000) * tempPenalty
	carbon := wh / 1000 * gramsPerKWh

	return Impact{
		Wh:              strconv.FormatFloat(wh, 'f', 4, 64),
		Carbon:          strconv.FormatFloat(carbon, 'f', 5, 64),
		PredictedModel:  model,
		BaseWh:          baseWh,
		TempPenalty:     tempPenalty,
		EstimatedTokens: tokens,
	}
}

// PredictModel returns the model the estimate assumes and its Wh per 1000
// tokens. Under autoPilot the choice depends only on prompt length.
func PredictModel(cfg OptimizationConfig, promptLength int) (string, float64) {
	if cfg.AutoPilot {
		if promptLength > autoPilotProChars {
			return ModelPro, whPro
		}
		return ModelFlash, whFlash
	}
	switch cfg.Model {
	case ModelFlash:
		return cfg.Model, whFlash
	case ModelFlashLegacy:
		return cfg.Model, whFlashLegacy
	case ModelPro:
		return cfg.Model, whPro
	default:
		return cfg.Model, whUnknown
	}
}
