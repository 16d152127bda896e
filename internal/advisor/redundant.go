package advisor

import (
	"strings"
	"unicode/utf8"
)

// DefaultSimilarityThreshold is the Jaccard score at which a prompt counts as
// a near-duplicate of an earlier one.
const DefaultSimilarityThreshold = 0.6

// PriorPrompt is an earlier prompt from the same session.
type PriorPrompt struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
}

// SimilarityResult reports the closest earlier prompt.
// Similarity is kept even when below threshold, for diagnostics.
type SimilarityResult struct {
	IsSimilar       bool    `json:"isSimilar"`
	Similarity      float64 `json:"similarity"`
	SimilarPrompt   string  `json:"similarPrompt,omitempty"`
	SimilarPromptID string  `json:"similarPromptId,omitempty"`
}

// DetectRedundant compares prompt against every previous prompt and reports
// the best match. On equal scores the earliest entry wins. A threshold <= 0
// selects DefaultSimilarityThreshold.
func DetectRedundant(prompt string, previous []PriorPrompt, threshold float64) SimilarityResult {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	if len(previous) == 0 {
		return SimilarityResult{}
	}

	current := tokenSet(prompt)
	best := 0.0
	bestIdx := -1
	for i, prev := range previous {
		sim := jaccard(current, tokenSet(prev.Prompt))
		if sim > best {
			best = sim
			bestIdx = i
		}
	}

	if bestIdx >= 0 && best >= threshold {
		return SimilarityResult{
			IsSimilar:       true,
			Similarity:      best,
			SimilarPrompt:   previous[bestIdx].Prompt,
			SimilarPromptID: previous[bestIdx].ID,
		}
	}
	return SimilarityResult{Similarity: best}
}

// Jaccard returns |A∩B| / |A∪B| over the lowercase whitespace tokens of a
// and b longer than two characters. An empty union scores 0.
func Jaccard(a, b string) float64 {
	return jaccard(tokenSet(a), tokenSet(b))
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		if utf8.RuneCountInString(tok) > 2 {
			set[tok] = struct{}{}
		}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
