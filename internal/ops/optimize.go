package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/hpungsan/erde/internal/advisor"
	"github.com/hpungsan/erde/internal/config"
	"github.com/hpungsan/erde/internal/errors"
	"github.com/hpungsan/erde/internal/provider"
	"github.com/hpungsan/erde/internal/session"
)

// fallbackMaxTokens is charged to the tracker when no budget was derived.
const fallbackMaxTokens = 400

// Optimizer rewrites a prompt upstream. *provider.Orchestrator implements it.
type Optimizer interface {
	Optimize(ctx context.Context, req provider.Request) (*provider.OptimizationResult, error)
}

// OptimizeInput contains parameters for the Optimize operation.
type OptimizeInput struct {
	Owner  string
	Prompt string // required
	Config advisor.OptimizationConfig
}

// OptimizeOutput is the provider result plus bookkeeping ids.
type OptimizeOutput struct {
	provider.OptimizationResult
	HistoryID      string `json:"historyId,omitempty"`
	ReusedPromptID string `json:"reusedPromptId,omitempty"`
}

// Optimize runs the full optimize action: gatekeeper, reuse detection,
// constraint injection, provider dispatch, history and tracker accounting.
// A blocked prompt never reaches the provider. tracker may be nil.
func Optimize(ctx context.Context, database *sql.DB, cfg *config.Config, opt Optimizer, tracker *session.Tracker, input OptimizeInput) (*OptimizeOutput, error) {
	if strings.TrimSpace(input.Prompt) == "" {
		return nil, errors.NewInvalidRequest("prompt is required")
	}
	if err := input.Config.Validate(); err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	if tracker == nil {
		tracker = session.NewTracker()
	}

	issues := advisor.Lint(input.Prompt)
	decision := advisor.Gatekeep(input.Prompt, issues)
	if decision.IsBlocked {
		return nil, errors.NewOptimizationBlocked(decision.Reason, advisor.CountWarnings(issues))
	}

	history, err := loadHistory(ctx, database, input.Owner)
	if err != nil {
		return nil, err
	}
	reusedID := markReuse(ctx, database, cfg, tracker, input.Owner, input.Prompt, history)

	length := advisor.OutputLength(input.Prompt, input.Config.AnswerDepth)
	runCfg := input.Config
	if runCfg.OutputLengthConstraint <= 0 {
		runCfg.OutputLengthConstraint = length.MaxTokens
	}

	result, err := opt.Optimize(ctx, provider.Request{
		Prompt:       input.Prompt,
		Instructions: advisor.BuildInstructions(length, runCfg),
		Config:       runCfg,
	})
	if err != nil {
		tracker.RecordRetry()
		return nil, err
	}

	maxTokens := runCfg.OutputLengthConstraint
	if maxTokens <= 0 {
		maxTokens = fallbackMaxTokens
	}
	tracker.RecordLLMCall(advisor.EstimateTokens(input.Prompt) + maxTokens)

	out := &OptimizeOutput{OptimizationResult: *result, ReusedPromptID: reusedID}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	item := HistoryItem{
		ID:        id,
		Timestamp: time.Now().UnixMilli(),
		Prompt:    input.Prompt,
		Result:    *result,
		Config:    runCfg,
	}
	if err := AppendHistory(ctx, database, cfg, input.Owner, item); err != nil {
		// History is best effort once the rewrite succeeded.
		logrus.WithFields(logrus.Fields{
			"event": "history_append_failed",
			"owner": NormalizeOwner(input.Owner),
		}).WithError(err).Warn("could not record history")
	} else {
		out.HistoryID = id
	}
	return out, nil
}

// markReuse bumps a saved prompt when the new prompt repeats a history entry
// that the user also saved. Returns the saved prompt id, if any.
func markReuse(ctx context.Context, database *sql.DB, cfg *config.Config, tracker *session.Tracker, owner, prompt string, history []HistoryItem) string {
	match := advisor.DetectRedundant(prompt, priorPrompts(history), similarityThreshold(cfg))
	if !match.IsSimilar {
		return ""
	}

	saved, err := ListPrompts(ctx, database, owner)
	if err != nil {
		return ""
	}
	hit, ok := findSavedByText(saved, match.SimilarPrompt)
	if !ok {
		return ""
	}
	if err := TouchPrompt(ctx, database, owner, hit.ID); err != nil {
		return ""
	}
	tracker.RecordReusedPrompt()
	return hit.ID
}

func priorPrompts(history []HistoryItem) []advisor.PriorPrompt {
	return lo.Map(history, func(h HistoryItem, _ int) advisor.PriorPrompt {
		return advisor.PriorPrompt{ID: h.ID, Prompt: h.Prompt}
	})
}

func similarityThreshold(cfg *config.Config) float64 {
	if cfg == nil {
		return 0
	}
	return cfg.SimilarityThreshold
}

// AnalyzeInput contains parameters for the Analyze operation.
type AnalyzeInput struct {
	Owner  string
	Prompt string
	Config advisor.OptimizationConfig
}

// Analyze runs the advisory pipeline against owner's history. It never calls
// the provider and never writes.
func Analyze(ctx context.Context, database *sql.DB, cfg *config.Config, input AnalyzeInput) (*advisor.Analysis, error) {
	if err := input.Config.Validate(); err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	history, err := loadHistory(ctx, database, input.Owner)
	if err != nil {
		return nil, err
	}
	analysis := advisor.Analyze(input.Prompt, input.Config, priorPrompts(history), similarityThreshold(cfg))
	return &analysis, nil
}
