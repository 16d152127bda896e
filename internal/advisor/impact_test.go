package advisor

import (
	"math"
	"testing"
)

func TestEstimateImpact_ProStandard(t *testing.T) {
	cfg := OptimizationConfig{Model: ModelPro, Temperature: 0.5, AnswerDepth: DepthStandard}
	got := EstimateImpact(cfg, 800)

	if got.BaseWh != 3.5 {
		t.Errorf("BaseWh = %v, want 3.5", got.BaseWh)
	}
	if math.Abs(got.TempPenalty-1.05) > 1e-9 {
		t.Errorf("TempPenalty = %v, want 1.05", got.TempPenalty)
	}
	if got.EstimatedTokens != 200 {
		t.Errorf("EstimatedTokens = %v, want 200", got.EstimatedTokens)
	}
	if got.Wh != "0.7350" {
		t.Errorf("Wh = %q, want 0.7350", got.Wh)
	}
	if got.Carbon != "0.14700" {
		t.Errorf("Carbon = %q, want 0.14700", got.Carbon)
	}
	if got.PredictedModel != ModelPro {
		t.Errorf("PredictedModel = %q, want %q", got.PredictedModel, ModelPro)
	}
}

func TestEstimateImpact_BaseWhByModel(t *testing.T) {
	tests := []struct {
		model string
		want  float64
	}{
		{ModelFlash, 0.6},
		{ModelFlashLegacy, 0.5},
		{ModelPro, 3.5},
		{"gemini-1.5-pro", 2.0},
		{"", 2.0},
	}
	for _, tt := range tests {
		got := EstimateImpact(OptimizationConfig{Model: tt.model}, 400)
		if got.BaseWh != tt.want {
			t.Errorf("model %q: BaseWh = %v, want %v", tt.model, got.BaseWh, tt.want)
		}
	}
}

func TestEstimateImpact_AutoPilotThreshold(t *testing.T) {
	cfg := OptimizationConfig{Model: ModelFlashLegacy, AutoPilot: true}

	short := EstimateImpact(cfg, 500)
	if short.PredictedModel != ModelFlash || short.BaseWh != 0.6 {
		t.Errorf("500 chars: got %s/%v, want flash/0.6", short.PredictedModel, short.BaseWh)
	}

	long := EstimateImpact(cfg, 501)
	if long.PredictedModel != ModelPro || long.BaseWh != 3.5 {
		t.Errorf("501 chars: got %s/%v, want pro/3.5", long.PredictedModel, long.BaseWh)
	}
}

func TestEstimateImpact_DepthScalesTokens(t *testing.T) {
	cfg := OptimizationConfig{Model: ModelFlash, AnswerDepth: DepthConcise}
	got := EstimateImpact(cfg, 1000)
	if got.EstimatedTokens != 125 {
		t.Errorf("EstimatedTokens = %v, want 125", got.EstimatedTokens)
	}
	if got.Wh != "0.0750" || got.Carbon != "0.01500" {
		t.Errorf("got wh=%s carbon=%s, want 0.0750/0.01500", got.Wh, got.Carbon)
	}

	cfg.AnswerDepth = DepthDetailed
	if got := EstimateImpact(cfg, 1000); got.EstimatedTokens != 500 {
		t.Errorf("Detailed EstimatedTokens = %v, want 500", got.EstimatedTokens)
	}
}

func TestEstimateImpact_ZeroLength(t *testing.T) {
	got := EstimateImpact(DefaultConfig(), 0)
	if got.Wh != "0.0000" || got.Carbon != "0.00000" {
		t.Errorf("got wh=%s carbon=%s, want zeros", got.Wh, got.Carbon)
	}
}
