package advisor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// GatekeeperDecision says whether optimizing a prompt is worthwhile, and
// whether it must be refused outright.
type GatekeeperDecision struct {
	ShouldRecommend bool   `json:"shouldRecommend"`
	IsBlocked       bool   `json:"isBlocked"`
	Reason          string `json:"reason"`
}

const (
	minOptimizableChars  = 120
	maxFactualChars      = 200
	maxOptimizedChars    = 300
	optimizedAvgWordSize = 5.0
)

var factualQueryRegex = regexp.MustCompile(`(?i)^(what is|who is|when did|where is|how many|what year)`)

var fillerWords = []string{"um", "uh", "like", "you know", "actually", "basically", "kind of"}

// Gatekeep decides on optimization for a prompt and its lint issues.
// Rules are evaluated in order and the first match wins:
//  1. more than one warning blocks
//  2. under 120 chars is too short
//  3. short factual questions are not worth it
//  4. filler-free prompts with long words under 300 chars are already optimized
//  5. otherwise recommend
func Gatekeep(prompt string, issues []LinterIssue) GatekeeperDecision {
	trimmed := strings.TrimSpace(prompt)
	length := utf8.RuneCountInString(trimmed)

	if warnings := CountWarnings(issues); warnings > 1 {
		return GatekeeperDecision{
			IsBlocked: true,
			Reason:    fmt.Sprintf("Optimization blocked until prompt quality issues are resolved (%d warnings detected).", warnings),
		}
	}

	if length < minOptimizableChars {
		return GatekeeperDecision{
			Reason: "Prompt is too short for optimization to provide significant benefit.",
		}
	}

	if length < maxFactualChars && factualQueryRegex.MatchString(trimmed) {
		return GatekeeperDecision{
			Reason: "This appears to be a simple factual query that may not benefit from optimization.",
		}
	}

	hasFiller := len(matchWords(trimmed, fillerWords)) > 0
	if !hasFiller && averageWordLength(trimmed) > optimizedAvgWordSize && length < maxOptimizedChars {
		return GatekeeperDecision{
			Reason: "Prompt appears already optimized (concise and specific).",
		}
	}

	return GatekeeperDecision{
		ShouldRecommend: true,
		Reason:          "Optimization recommended for this prompt.",
	}
}

func averageWordLength(s string) float64 {
	words := strings.Fields(s)
	if len(words) == 0 {
		return 0
	}
	total := 0
	for _, w := range words {
		total += utf8.RuneCountInString(w)
	}
	return float64(total) / float64(len(words))
}
