package mcp

import "github.com/mark3labs/mcp-go/mcp"

var configSchema = map[string]any{
	"model":                  map[string]any{"type": "string"},
	"temperature":            map[string]any{"type": "number", "minimum": 0, "maximum": 1},
	"autoPilot":              map[string]any{"type": "boolean"},
	"apiKey":                 map[string]any{"type": "string"},
	"anticipatoryMode":       map[string]any{"type": "boolean"},
	"outputLengthConstraint": map[string]any{"type": "integer", "minimum": 0},
	"answerDepth":            map[string]any{"type": "string", "enum": []string{"Concise", "Standard", "Detailed"}},
	"optimizationMode":       map[string]any{"type": "string", "enum": []string{"Concise", "Structured", "Deterministic"}},
}

var lintToolDef = mcp.NewTool("prompt_lint",
	mcp.WithDescription("Check a prompt for structural issues: missing role, missing output format, ambiguous phrasing and multiple tasks."),
	mcp.WithString("prompt", mcp.Required(), mcp.Description("Prompt text to lint")),
)

var analyzeToolDef = mcp.NewTool("prompt_analyze",
	mcp.WithDescription("Run every advisory heuristic over a prompt: task type, output budget, lint, gatekeeper, follow-up and repeat detection, energy estimate. Never calls a model."),
	mcp.WithString("prompt", mcp.Required(), mcp.Description("Prompt text to analyze")),
	mcp.WithObject("config", mcp.Description("Optimization config; omitted fields use defaults"), mcp.Properties(configSchema)),
	mcp.WithString("owner", mcp.Description("History scope for repeat detection (default: local)")),
)

var impactToolDef = mcp.NewTool("prompt_impact",
	mcp.WithDescription("Estimate energy (Wh) and carbon (g) for optimizing a prompt under a config."),
	mcp.WithString("prompt", mcp.Required(), mcp.Description("Prompt text")),
	mcp.WithObject("config", mcp.Description("Optimization config; omitted fields use defaults"), mcp.Properties(configSchema)),
)

var optimizeToolDef = mcp.NewTool("prompt_optimize",
	mcp.WithDescription("Rewrite a prompt to be token-efficient through the model fallback chain. Refused when the prompt has more than one lint warning."),
	mcp.WithString("prompt", mcp.Required(), mcp.Description("Prompt text to optimize")),
	mcp.WithObject("config", mcp.Description("Optimization config; omitted fields use defaults"), mcp.Properties(configSchema)),
	mcp.WithString("owner", mcp.Description("History scope (default: local)")),
)

var historyListToolDef = mcp.NewTool("history_list",
	mcp.WithDescription("List past optimizations, newest first."),
	mcp.WithString("owner", mcp.Description("History scope (default: local)")),
	mcp.WithNumber("limit", mcp.Description("Max items (default: 20, max: 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
)

var promptsSaveToolDef = mcp.NewTool("prompts_save",
	mcp.WithDescription("Save a prompt for later reuse."),
	mcp.WithString("prompt", mcp.Required(), mcp.Description("Prompt text")),
	mcp.WithString("optimized_prompt", mcp.Description("Optimized rewrite, if any")),
	mcp.WithArray("tags", mcp.Description("Tags"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithString("owner", mcp.Description("Scope (default: local)")),
)

var promptsSearchToolDef = mcp.NewTool("prompts_search",
	mcp.WithDescription("Search saved prompts by case-insensitive substring of text or tag. An empty query lists all."),
	mcp.WithString("query", mcp.Description("Search text")),
	mcp.WithString("owner", mcp.Description("Scope (default: local)")),
)

var metricsGetToolDef = mcp.NewTool("metrics_get",
	mcp.WithDescription("Return session efficiency counters and the 0-100 efficiency score."),
)
