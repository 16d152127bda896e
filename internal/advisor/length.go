package advisor

import (
	"fmt"
	"math"
)

// OutputLengthConstraint caps the size of a generated answer.
type OutputLengthConstraint struct {
	TaskType  TaskType `json:"taskType"`
	MaxTokens int      `json:"maxTokens"`
	Guidance  string   `json:"guidance"`
}

// baseTokens is the Standard-depth budget per task type.
var baseTokens = map[TaskType]float64{
	TaskSummary:     150,
	TaskCode:        400,
	TaskList:        250,
	TaskExplanation: 300,
	TaskAnalysis:    450,
	TaskUnknown:     300,
}

// OutputLength derives the output budget and phrasing guidance for a prompt.
// An empty depth is treated as Concise.
func OutputLength(prompt string, depth AnswerDepth) OutputLengthConstraint {
	if depth == "" {
		depth = DepthConcise
	}
	task := InferTaskType(prompt)
	concise := depth == DepthConcise

	var guidance string
	switch task {
	case TaskSummary:
		guidance = pick(concise,
			"One paragraph, max 50 words. Absolute focus on core essence.",
			"Structured overview with key highlights.")
	case TaskCode:
		guidance = pick(concise,
			"Pure code block only. No comments or preamble.",
			"Code with essential documentation and usage example.")
	case TaskList:
		bullets := 10
		switch depth {
		case DepthConcise:
			bullets = 5
		case DepthDetailed:
			bullets = 15
		}
		guidance = fmt.Sprintf("Max %d bullet points.", bullets)
		if concise {
			guidance += " Strict limit of 20 words per bullet."
		}
	case TaskExplanation:
		guidance = pick(concise,
			"Max 2 paragraphs, max 100 words total. Use direct language.",
			"Structured explanation with definitions and context.")
	case TaskAnalysis:
		guidance = pick(concise,
			"Direct findings and recommendations. Minimal background.",
			"Comprehensive analysis with data points and multi-angle evaluation.")
	default:
		guidance = "Focused response with minimal conversational filler."
	}

	if concise && (task == TaskExplanation || task == TaskSummary) {
		guidance += " ENFORCE: max 100 words."
	}

	return OutputLengthConstraint{
		TaskType:  task,
		MaxTokens: int(math.Round(baseTokens[task] * DepthFactor(depth))),
		Guidance:  guidance,
	}
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
