package advisor

import (
	"reflect"
	"testing"
)

func TestDetectFollowUp(t *testing.T) {
	tests := []struct {
		name           string
		prompt         string
		wantLikely     bool
		wantConfidence Confidence
		wantTriggers   []string
	}{
		{
			name:           "high confidence words in list order",
			prompt:         "Explain how DNS resolution works",
			wantLikely:     true,
			wantConfidence: ConfidenceHigh,
			wantTriggers:   []string{"how", "explain"},
		},
		{
			name:           "conceptual without constraints",
			prompt:         "I want to understand the concept of entropy",
			wantLikely:     true,
			wantConfidence: ConfidenceMedium,
			wantTriggers:   []string{TriggerConceptual},
		},
		{
			name:           "conceptual with a constraint word is only open ended",
			prompt:         "What is the concept behind the limit?",
			wantLikely:     true,
			wantConfidence: ConfidenceMedium,
			wantTriggers:   []string{TriggerOpenEnded},
		},
		{
			name:           "short open ended question",
			prompt:         "Is Paris in France?",
			wantLikely:     true,
			wantConfidence: ConfidenceMedium,
			wantTriggers:   []string{TriggerOpenEnded},
		},
		{
			name:           "definitive question",
			prompt:         "Is this statement true?",
			wantConfidence: ConfidenceLow,
			wantTriggers:   []string{},
		},
		{
			name:           "high word plus open ended keeps high",
			prompt:         "Why does the sky look blue?",
			wantLikely:     true,
			wantConfidence: ConfidenceHigh,
			wantTriggers:   []string{"why", TriggerOpenEnded},
		},
		{
			name:           "plain instruction",
			prompt:         "Translate this sentence into German.",
			wantConfidence: ConfidenceLow,
			wantTriggers:   []string{},
		},
		{
			name:           "empty",
			prompt:         "",
			wantConfidence: ConfidenceLow,
			wantTriggers:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectFollowUp(tt.prompt)
			if got.LikelyFollowUp != tt.wantLikely {
				t.Errorf("LikelyFollowUp = %v, want %v", got.LikelyFollowUp, tt.wantLikely)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %q, want %q", got.Confidence, tt.wantConfidence)
			}
			if !reflect.DeepEqual(got.Triggers, tt.wantTriggers) {
				t.Errorf("Triggers = %#v, want %#v", got.Triggers, tt.wantTriggers)
			}
		})
	}
}
