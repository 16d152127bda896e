package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/erde/internal/advisor"
	"github.com/hpungsan/erde/internal/config"
	"github.com/hpungsan/erde/internal/errors"
	"github.com/hpungsan/erde/internal/ops"
	"github.com/hpungsan/erde/internal/session"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db      *sql.DB
	cfg     *config.Config
	opt     ops.Optimizer
	tracker *session.Tracker
}

// NewHandlers creates a new Handlers instance. A nil tracker gets a fresh one.
func NewHandlers(db *sql.DB, cfg *config.Config, opt ops.Optimizer, tracker *session.Tracker) *Handlers {
	if tracker == nil {
		tracker = session.NewTracker()
	}
	return &Handlers{db: db, cfg: cfg, opt: opt, tracker: tracker}
}

// Request types for each tool

// PromptRequest represents the arguments for the prompt_* tools.
type PromptRequest struct {
	Prompt string                     `json:"prompt"`
	Config advisor.OptimizationConfig `json:"config"`
	Owner  string                     `json:"owner,omitempty"`
}

// HistoryListRequest represents the arguments for history_list.
type HistoryListRequest struct {
	Owner  string `json:"owner,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// PromptsSaveRequest represents the arguments for prompts_save.
type PromptsSaveRequest struct {
	Prompt          string   `json:"prompt"`
	OptimizedPrompt string   `json:"optimized_prompt,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Owner           string   `json:"owner,omitempty"`
}

// PromptsSearchRequest represents the arguments for prompts_search.
type PromptsSearchRequest struct {
	Query string `json:"query,omitempty"`
	Owner string `json:"owner,omitempty"`
}

// decodePrompt decodes prompt arguments over the default config.
func decodePrompt(req mcp.CallToolRequest) (PromptRequest, error) {
	in := PromptRequest{Config: advisor.DefaultConfig()}
	if err := decodeInto(req, &in); err != nil {
		return in, errors.NewInvalidRequest(err.Error())
	}
	return in, nil
}

// Handler implementations

// HandleLint handles the prompt_lint tool call.
func (h *Handlers) HandleLint(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodePrompt(req)
	if err != nil {
		return errorResult(err), nil
	}
	issues := advisor.Lint(input.Prompt)
	return successResult(map[string]any{
		"issues":   issues,
		"warnings": advisor.CountWarnings(issues),
	})
}

// HandleAnalyze handles the prompt_analyze tool call.
func (h *Handlers) HandleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodePrompt(req)
	if err != nil {
		return errorResult(err), nil
	}
	result, err := ops.Analyze(ctx, h.db, h.cfg, ops.AnalyzeInput{
		Owner:  input.Owner,
		Prompt: input.Prompt,
		Config: input.Config,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleImpact handles the prompt_impact tool call.
func (h *Handlers) HandleImpact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodePrompt(req)
	if err != nil {
		return errorResult(err), nil
	}
	if err := input.Config.Validate(); err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return successResult(advisor.EstimateImpact(input.Config, utf8.RuneCountInString(input.Prompt)))
}

// HandleOptimize handles the prompt_optimize tool call.
func (h *Handlers) HandleOptimize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodePrompt(req)
	if err != nil {
		return errorResult(err), nil
	}
	result, err := ops.Optimize(ctx, h.db, h.cfg, h.opt, h.tracker, ops.OptimizeInput{
		Owner:  input.Owner,
		Prompt: input.Prompt,
		Config: input.Config,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleHistoryList handles the history_list tool call.
func (h *Handlers) HandleHistoryList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.ListHistory(ctx, h.db, ops.ListHistoryInput{
		Owner:  input.Owner,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandlePromptsSave handles the prompts_save tool call.
func (h *Handlers) HandlePromptsSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PromptsSaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.SavePrompt(ctx, h.db, h.tracker, ops.SavePromptInput{
		Owner:           input.Owner,
		Prompt:          input.Prompt,
		OptimizedPrompt: input.OptimizedPrompt,
		Tags:            input.Tags,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandlePromptsSearch handles the prompts_search tool call.
func (h *Handlers) HandlePromptsSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PromptsSearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	items, err := ops.SearchPrompts(ctx, h.db, input.Owner, input.Query)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"items": items, "query": input.Query})
}

// HandleMetrics handles the metrics_get tool call.
func (h *Handlers) HandleMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m := h.tracker.Metrics()
	return successResult(map[string]any{"metrics": m, "score": m.Score()})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Internal error details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	eErr := errors.As(err)
	errorObj := map[string]any{
		"code":    eErr.Code,
		"message": eErr.Message,
		"status":  eErr.Status,
	}
	if eErr.Code != errors.ErrInternal && len(eErr.Details) > 0 {
		errorObj["details"] = eErr.Details
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
