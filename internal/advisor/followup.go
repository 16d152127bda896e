package advisor

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Confidence of a follow-up prediction.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Trigger names for the non-keyword follow-up rules.
const (
	TriggerConceptual = "conceptual_without_constraints"
	TriggerOpenEnded  = "short_open_ended"
)

// FollowUpDetection predicts whether a prompt will need a clarifying follow-up.
// It is advisory only; nothing enables AnticipatoryMode from it.
type FollowUpDetection struct {
	LikelyFollowUp bool       `json:"likelyFollowUp"`
	Confidence     Confidence `json:"confidence"`
	Triggers       []string   `json:"triggers"`
}

var (
	highConfidenceWords = []string{"how", "why", "explain", "compare", "difference", "trade-off", "tradeoff", "pros", "cons"}
	conceptualWords     = []string{"understand", "concept", "idea", "theory", "principle"}

	constraintRegex = regexp.MustCompile(`(?i)\b(limit|constraint|specific|exact|precise|only|just)\b`)
	definitiveRegex = regexp.MustCompile(`(?i)\b(yes|no|true|false|specific|exact)\b`)
)

// DetectFollowUp flags prompts likely to need a clarifying follow-up.
func DetectFollowUp(prompt string) FollowUpDetection {
	triggers := []string{}
	confidence := ConfidenceLow
	length := utf8.RuneCountInString(prompt)

	if found := matchWords(prompt, highConfidenceWords); len(found) > 0 {
		triggers = append(triggers, found...)
		confidence = ConfidenceHigh
	}

	hasConceptual := len(matchWords(prompt, conceptualWords)) > 0
	if hasConceptual && !constraintRegex.MatchString(prompt) && length < 150 {
		triggers = append(triggers, TriggerConceptual)
		if confidence == ConfidenceLow {
			confidence = ConfidenceMedium
		}
	}

	if length < 100 && strings.HasSuffix(prompt, "?") && !definitiveRegex.MatchString(prompt) {
		triggers = append(triggers, TriggerOpenEnded)
		if confidence == ConfidenceLow {
			confidence = ConfidenceMedium
		}
	}

	return FollowUpDetection{
		LikelyFollowUp: len(triggers) > 0,
		Confidence:     confidence,
		Triggers:       triggers,
	}
}
