package advisor

import (
	"strings"
	"unicode/utf8"
)

// Analysis is everything the advisor knows about a prompt before dispatch.
type Analysis struct {
	TaskType     TaskType               `json:"taskType"`
	Length       OutputLengthConstraint `json:"length"`
	Issues       []LinterIssue          `json:"issues"`
	Warnings     int                    `json:"warnings"`
	Decision     GatekeeperDecision     `json:"decision"`
	FollowUp     FollowUpDetection      `json:"followUp"`
	Redundant    SimilarityResult       `json:"redundant"`
	Impact       Impact                 `json:"impact"`
	Eco          bool                   `json:"eco"`
	Instructions string                 `json:"instructions"`
}

// Analyze runs every heuristic over prompt. It is meant to be called on each
// edit. previous holds the session's earlier prompts, newest first.
func Analyze(prompt string, cfg OptimizationConfig, previous []PriorPrompt, threshold float64) Analysis {
	issues := Lint(prompt)
	length := OutputLength(prompt, cfg.AnswerDepth)

	return Analysis{
		TaskType:     length.TaskType,
		Length:       length,
		Issues:       issues,
		Warnings:     CountWarnings(issues),
		Decision:     Gatekeep(prompt, issues),
		FollowUp:     DetectFollowUp(prompt),
		Redundant:    DetectRedundant(prompt, previous, threshold),
		Impact:       EstimateImpact(cfg, utf8.RuneCountInString(prompt)),
		Eco:          IsEco(cfg),
		Instructions: BuildInstructions(length, cfg),
	}
}

var modeInstructions = map[OptimizationMode]string{
	ModeConcise:       "Mode: Concise. Strip filler and keep only what changes the answer.",
	ModeStructured:    "Mode: Structured. Organize the rewrite into labelled sections or bullets.",
	ModeDeterministic: "Mode: Deterministic. Ask for one precise answer with no alternatives.",
}

// BuildInstructions renders the constraint text appended to a prompt before
// it is sent upstream, one directive per line.
func BuildInstructions(length OutputLengthConstraint, cfg OptimizationConfig) string {
	var lines []string
	if length.Guidance != "" {
		lines = append(lines, "Output constraint: "+length.Guidance)
	}
	if mode, ok := modeInstructions[cfg.OptimizationMode]; ok {
		lines = append(lines, mode)
	}
	if cfg.AnticipatoryMode {
		lines = append(lines, "Anticipate the most likely follow-up question and answer it briefly.")
	}
	return strings.Join(lines, "\n")
}
