package advisor

import "testing"

func TestInferTaskType(t *testing.T) {
	tests := []struct {
		prompt string
		want   TaskType
	}{
		{"Write a function that reverses a string", TaskCode},
		{"Create a small React code sample", TaskCode},
		{"Summarize the steps to implement a queue", TaskCode},
		{"Summarize this article", TaskSummary},
		{"Give me the tl;dr", TaskSummary},
		{"List the planets of the solar system", TaskList},
		{"Analyze the churn data", TaskAnalysis},
		{"Compare Go and Rust", TaskAnalysis},
		{"Explain gravity", TaskExplanation},
		{"Tell me about Rome", TaskExplanation},
		{"Hello there", TaskUnknown},
		{"", TaskUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			got := InferTaskType(tt.prompt)
			if got != tt.want {
				t.Errorf("InferTaskType(%q) = %q, want %q", tt.prompt, got, tt.want)
			}
			if again := InferTaskType(tt.prompt); again != got {
				t.Errorf("InferTaskType(%q) not stable: %q then %q", tt.prompt, got, again)
			}
		})
	}
}

func TestOutputLength(t *testing.T) {
	tests := []struct {
		name         string
		prompt       string
		depth        AnswerDepth
		wantTask     TaskType
		wantTokens   int
		wantGuidance string
	}{
		{
			name:         "concise summary gets hard cap",
			prompt:       "Summarize this article",
			depth:        DepthConcise,
			wantTask:     TaskSummary,
			wantTokens:   75,
			wantGuidance: "One paragraph, max 50 words. Absolute focus on core essence. ENFORCE: max 100 words.",
		},
		{
			name:         "standard summary",
			prompt:       "Summarize this article",
			depth:        DepthStandard,
			wantTask:     TaskSummary,
			wantTokens:   150,
			wantGuidance: "Structured overview with key highlights.",
		},
		{
			name:         "detailed code",
			prompt:       "Write a function that reverses a string",
			depth:        DepthDetailed,
			wantTask:     TaskCode,
			wantTokens:   800,
			wantGuidance: "Code with essential documentation and usage example.",
		},
		{
			name:         "concise code",
			prompt:       "Write a function that reverses a string",
			depth:        DepthConcise,
			wantTask:     TaskCode,
			wantTokens:   200,
			wantGuidance: "Pure code block only. No comments or preamble.",
		},
		{
			name:         "concise list",
			prompt:       "List the planets of the solar system",
			depth:        DepthConcise,
			wantTask:     TaskList,
			wantTokens:   125,
			wantGuidance: "Max 5 bullet points. Strict limit of 20 words per bullet.",
		},
		{
			name:         "standard list",
			prompt:       "List the planets of the solar system",
			depth:        DepthStandard,
			wantTask:     TaskList,
			wantTokens:   250,
			wantGuidance: "Max 10 bullet points.",
		},
		{
			name:         "detailed list",
			prompt:       "List the planets of the solar system",
			depth:        DepthDetailed,
			wantTask:     TaskList,
			wantTokens:   500,
			wantGuidance: "Max 15 bullet points.",
		},
		{
			name:         "concise explanation gets hard cap",
			prompt:       "Explain gravity",
			depth:        DepthConcise,
			wantTask:     TaskExplanation,
			wantTokens:   150,
			wantGuidance: "Max 2 paragraphs, max 100 words total. Use direct language. ENFORCE: max 100 words.",
		},
		{
			name:         "standard analysis",
			prompt:       "Analyze the churn data",
			depth:        DepthStandard,
			wantTask:     TaskAnalysis,
			wantTokens:   450,
			wantGuidance: "Comprehensive analysis with data points and multi-angle evaluation.",
		},
		{
			name:         "empty depth is concise",
			prompt:       "Hello there",
			depth:        "",
			wantTask:     TaskUnknown,
			wantTokens:   150,
			wantGuidance: "Focused response with minimal conversational filler.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutputLength(tt.prompt, tt.depth)
			if got.TaskType != tt.wantTask {
				t.Errorf("TaskType = %q, want %q", got.TaskType, tt.wantTask)
			}
			if got.MaxTokens != tt.wantTokens {
				t.Errorf("MaxTokens = %d, want %d", got.MaxTokens, tt.wantTokens)
			}
			if got.Guidance != tt.wantGuidance {
				t.Errorf("Guidance = %q, want %q", got.Guidance, tt.wantGuidance)
			}
		})
	}
}

func TestOutputLength_AlwaysPositiveAndStable(t *testing.T) {
	prompts := []string{"", "Write code", "Summarize", "List items", "Analyze", "Explain", "Hello"}
	depths := []AnswerDepth{"", DepthConcise, DepthStandard, DepthDetailed, "Unknown"}
	for _, p := range prompts {
		for _, d := range depths {
			first := OutputLength(p, d)
			if first.MaxTokens <= 0 {
				t.Errorf("OutputLength(%q, %q).MaxTokens = %d, want > 0", p, d, first.MaxTokens)
			}
			if second := OutputLength(p, d); second != first {
				t.Errorf("OutputLength(%q, %q) not stable: %+v vs %+v", p, d, first, second)
			}
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"héllo wörld", 3},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
