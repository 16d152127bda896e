package mcp

import (
	"database/sql"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/lo"

	"github.com/hpungsan/erde/internal/config"
	"github.com/hpungsan/erde/internal/ops"
	"github.com/hpungsan/erde/internal/session"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"prompt", "history", "prompts", "metrics"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"prompt_lint": {
		def:     lintToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLint },
	},
	"prompt_analyze": {
		def:     analyzeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAnalyze },
	},
	"prompt_impact": {
		def:     impactToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleImpact },
	},
	"prompt_optimize": {
		def:     optimizeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleOptimize },
	},
	"history_list": {
		def:     historyListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryList },
	},
	"prompts_save": {
		def:     promptsSaveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePromptsSave },
	},
	"prompts_search": {
		def:     promptsSearchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePromptsSearch },
	},
	"metrics_get": {
		def:     metricsGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMetrics },
	},
}

// AllToolNames returns all valid tool names, sorted.
func AllToolNames() []string {
	names := lo.Keys(toolRegistry)
	slices.Sort(names)
	return names
}

// ValidateDisabledTools returns the names not in the tool registry.
func ValidateDisabledTools(names []string) []string {
	return lo.Reject(names, func(name string, _ int) bool {
		_, ok := toolRegistry[name]
		return ok
	})
}

// ValidateDisabledTypes returns the names not in KnownTypes.
func ValidateDisabledTypes(names []string) []string {
	unknown, _ := lo.Difference(names, KnownTypes)
	return lo.Uniq(unknown)
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "prompt_lint" → "prompt").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}
	return lo.Filter(AllToolNames(), func(name string, _ int) bool {
		return lo.Contains(types, GetTypeForTool(name))
	})
}

// NewServer creates a new MCP server with erde tools registered.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration.
func NewServer(db *sql.DB, cfg *config.Config, opt ops.Optimizer, tracker *session.Tracker, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"erde",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg, opt, tracker)

	for _, name := range enabledTools(cfg) {
		entry := toolRegistry[name]
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// enabledTools returns the registry names left after removing
// cfg.DisabledTypes and cfg.DisabledTools, sorted.
func enabledTools(cfg *config.Config) []string {
	disabled := append(ExpandTypesToTools(cfg.DisabledTypes), cfg.DisabledTools...)
	return lo.Without(AllToolNames(), disabled...)
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, opt ops.Optimizer, tracker *session.Tracker, version string) error {
	s := NewServer(db, cfg, opt, tracker, version)
	return server.ServeStdio(s)
}
