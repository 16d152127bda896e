package advisor

import (
	"regexp"
	"strings"
)

// TaskType is the coarse category of work a prompt asks for.
type TaskType string

const (
	TaskCode        TaskType = "code"
	TaskSummary     TaskType = "summary"
	TaskList        TaskType = "list"
	TaskAnalysis    TaskType = "analysis"
	TaskExplanation TaskType = "explanation"
	TaskUnknown     TaskType = "unknown"
)

// taskPatterns are checked in order; the first match wins.
var taskPatterns = []struct {
	task TaskType
	re   *regexp.Regexp
}{
	{TaskCode, regexp.MustCompile(`\b(code|function|script|program|implement|write code|generate code|create.*code)\b`)},
	{TaskSummary, regexp.MustCompile(`\b(summarize|summary|brief|overview|tl;dr|condense)\b`)},
	{TaskList, regexp.MustCompile(`\b(list|enumerate|items|bullets|points|steps)\b`)},
	{TaskAnalysis, regexp.MustCompile(`\b(analyze|analysis|evaluate|assess|compare|contrast|examine)\b`)},
	{TaskExplanation, regexp.MustCompile(`\b(explain|describe|how|why|what is|tell me about)\b`)},
}

// InferTaskType classifies a prompt. Unmatched text yields TaskUnknown.
func InferTaskType(prompt string) TaskType {
	lower := strings.ToLower(prompt)
	for _, p := range taskPatterns {
		if p.re.MatchString(lower) {
			return p.task
		}
	}
	return TaskUnknown
}
