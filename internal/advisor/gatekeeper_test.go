package advisor

import (
	"strings"
	"testing"
)

func TestGatekeep(t *testing.T) {
	tests := []struct {
		name          string
		prompt        string
		wantRecommend bool
		wantBlocked   bool
		wantReason    string
	}{
		{
			name:       "empty prompt is too short",
			prompt:     "",
			wantReason: "Prompt is too short for optimization to provide significant benefit.",
		},
		{
			name:       "short factual question",
			prompt:     "What is the capital of France?",
			wantReason: "Prompt is too short for optimization to provide significant benefit.",
		},
		{
			name:       "factual query under 200 chars",
			prompt:     "What is the tallest mountain in the Alps? You are a geography tutor, reply briefly with the name and its elevation in meters please.",
			wantReason: "This appears to be a simple factual query that may not benefit from optimization.",
		},
		{
			name:       "dense prompt is already optimized",
			prompt:     "You are a financial analyst. Summarize quarterly statements highlighting revenue variance, operational expenditure anomalies, depreciation schedules.",
			wantReason: "Prompt appears already optimized (concise and specific).",
		},
		{
			name:          "chatty prompt with filler",
			prompt:        "You are a helpful assistant. So basically I want you to read my notes from the meeting we had today and turn them into a short list of the decisions we made.",
			wantRecommend: true,
			wantReason:    "Optimization recommended for this prompt.",
		},
		{
			name:          "single multiple_tasks warning does not block",
			prompt:        "You are a trivia host preparing a quiz night for a local library club this winter. Who is the author credited with writing the novel about the white whale? Did they write anything else worth reading today? Which one of their books sold best during their lifetime?",
			wantRecommend: true,
			wantReason:    "Optimization recommended for this prompt.",
		},
		{
			name:        "two warnings block",
			prompt:      "Tell me about various rivers and mountains and deserts in Europe because I want to plan a trip there soon",
			wantBlocked: true,
			wantReason:  "Optimization blocked until prompt quality issues are resolved (3 warnings detected).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Gatekeep(tt.prompt, Lint(tt.prompt))
			if got.ShouldRecommend != tt.wantRecommend {
				t.Errorf("ShouldRecommend = %v, want %v", got.ShouldRecommend, tt.wantRecommend)
			}
			if got.IsBlocked != tt.wantBlocked {
				t.Errorf("IsBlocked = %v, want %v", got.IsBlocked, tt.wantBlocked)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestGatekeep_ShortPromptsNeverRecommended(t *testing.T) {
	prompts := []string{
		"",
		"hi",
		"basically um like you know refactor this",
		strings.Repeat("word ", 23),
		"  " + strings.Repeat("x", 119) + "  ",
	}
	for _, p := range prompts {
		d := Gatekeep(p, nil)
		if d.ShouldRecommend || d.IsBlocked {
			t.Errorf("Gatekeep(%q) = %+v, want neither recommended nor blocked", p, d)
		}
	}
}

func TestGatekeep_WarningsBlockBeforeLength(t *testing.T) {
	issues := []LinterIssue{
		{Type: IssueMissingRole, Severity: SeverityWarning},
		{Type: IssueAmbiguousPhrase, Severity: SeverityWarning},
	}
	d := Gatekeep("short", issues)
	if !d.IsBlocked || d.ShouldRecommend {
		t.Fatalf("Gatekeep() = %+v, want blocked", d)
	}
	if !strings.Contains(d.Reason, "(2 warnings detected)") {
		t.Errorf("Reason = %q, want warning count", d.Reason)
	}
}

func TestGatekeep_InfoIssuesDoNotBlock(t *testing.T) {
	issues := []LinterIssue{
		{Type: IssueMissingFormat, Severity: SeverityInfo},
		{Type: IssueMissingFormat, Severity: SeverityInfo},
		{Type: IssueMissingRole, Severity: SeverityWarning},
	}
	if d := Gatekeep("", issues); d.IsBlocked {
		t.Errorf("Gatekeep() blocked on info issues: %+v", d)
	}
}
