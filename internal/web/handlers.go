package web

import (
	"database/sql"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/erde/internal/advisor"
	"github.com/hpungsan/erde/internal/config"
	"github.com/hpungsan/erde/internal/ops"
	"github.com/hpungsan/erde/internal/session"
)

// Handlers contains HTTP route handlers for the API.
type Handlers struct {
	db      *sql.DB
	cfg     *config.Config
	opt     ops.Optimizer
	tracker *session.Tracker
	log     logrus.FieldLogger
	version string
}

func newHandlers(opts Options) *Handlers {
	h := &Handlers{
		db:      opts.DB,
		cfg:     opts.Config,
		opt:     opts.Optimizer,
		tracker: opts.Tracker,
		log:     opts.Logger,
		version: opts.Version,
	}
	if h.cfg == nil {
		h.cfg = config.DefaultConfig()
	}
	if h.tracker == nil {
		h.tracker = session.NewTracker()
	}
	if h.log == nil {
		h.log = logrus.StandardLogger()
	}
	return h
}

// promptRequest is the body shared by optimize, analyze and impact.
// Config fields absent from the body keep their defaults.
type promptRequest struct {
	Prompt string                     `json:"prompt"`
	Config advisor.OptimizationConfig `json:"config"`
	Owner  string                     `json:"owner,omitempty"`
}

func (h *Handlers) decodePrompt(w http.ResponseWriter, r *http.Request) (promptRequest, error) {
	req := promptRequest{Config: advisor.DefaultConfig()}
	err := decodeJSON(w, r, &req)
	return req, err
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{"status": "ok", "version": h.version})
}

// HandleOptimize handles POST /api/optimize.
func (h *Handlers) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodePrompt(w, r)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}

	out, err := ops.Optimize(r.Context(), h.db, h.cfg, h.opt, h.tracker, ops.OptimizeInput{
		Owner:  req.Owner,
		Prompt: req.Prompt,
		Config: req.Config,
	})
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleAnalyze handles POST /api/analyze.
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodePrompt(w, r)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}

	analysis, err := ops.Analyze(r.Context(), h.db, h.cfg, ops.AnalyzeInput{
		Owner:  req.Owner,
		Prompt: req.Prompt,
		Config: req.Config,
	})
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, analysis)
}

// HandleImpact handles POST /api/impact.
func (h *Handlers) HandleImpact(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodePrompt(w, r)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, advisor.EstimateImpact(req.Config, utf8.RuneCountInString(req.Prompt)))
}

// HandleRegister handles POST /api/auth/register.
func (h *Handlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var creds ops.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		renderError(w, r, h.log, err)
		return
	}
	out, err := ops.Register(r.Context(), h.db, creds)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleLogin handles POST /api/auth/login.
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds ops.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		renderError(w, r, h.log, err)
		return
	}
	out, err := ops.Login(r.Context(), h.db, creds)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleHistory handles GET /api/history.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ListHistory(r.Context(), h.db, ops.ListHistoryInput{
		Owner:  r.URL.Query().Get("owner"),
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleClearHistory handles DELETE /api/history.
func (h *Handlers) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := ops.ClearHistory(r.Context(), h.db, r.URL.Query().Get("owner")); err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"cleared": true})
}

// savePromptRequest is the body of POST /api/prompts.
type savePromptRequest struct {
	Owner           string   `json:"owner,omitempty"`
	Prompt          string   `json:"prompt"`
	OptimizedPrompt string   `json:"optimizedPrompt,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// HandleListPrompts handles GET /api/prompts.
func (h *Handlers) HandleListPrompts(w http.ResponseWriter, r *http.Request) {
	prompts, err := ops.ListPrompts(r.Context(), h.db, r.URL.Query().Get("owner"))
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"items": prompts})
}

// HandleSavePrompt handles POST /api/prompts.
func (h *Handlers) HandleSavePrompt(w http.ResponseWriter, r *http.Request) {
	var req savePromptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		renderError(w, r, h.log, err)
		return
	}
	saved, err := ops.SavePrompt(r.Context(), h.db, h.tracker, ops.SavePromptInput{
		Owner:           req.Owner,
		Prompt:          req.Prompt,
		OptimizedPrompt: req.OptimizedPrompt,
		Tags:            req.Tags,
	})
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusCreated, saved)
}

// HandleSearchPrompts handles GET /api/prompts/search?q=.
func (h *Handlers) HandleSearchPrompts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	prompts, err := ops.SearchPrompts(r.Context(), h.db, q.Get("owner"), q.Get("q"))
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"items": prompts, "query": q.Get("q")})
}

// HandleUsePrompt handles POST /api/prompts/{id}/use, recording a reuse.
func (h *Handlers) HandleUsePrompt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := ops.TouchPrompt(r.Context(), h.db, r.URL.Query().Get("owner"), id); err != nil {
		renderError(w, r, h.log, err)
		return
	}
	h.tracker.RecordReusedPrompt()
	renderJSON(w, http.StatusOK, map[string]any{"id": id, "used": true})
}

// HandleDeletePrompt handles DELETE /api/prompts/{id}.
func (h *Handlers) HandleDeletePrompt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := ops.DeletePrompt(r.Context(), h.db, r.URL.Query().Get("owner"), id); err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// metricsResponse is the body of the metrics endpoints.
type metricsResponse struct {
	Metrics session.Metrics `json:"metrics"`
	Score   int             `json:"score"`
}

// HandleMetrics handles GET /api/metrics.
func (h *Handlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	m := h.tracker.Metrics()
	renderJSON(w, http.StatusOK, metricsResponse{Metrics: m, Score: m.Score()})
}

// HandleResetMetrics handles POST /api/metrics/reset.
func (h *Handlers) HandleResetMetrics(w http.ResponseWriter, r *http.Request) {
	h.tracker.Reset()
	renderJSON(w, http.StatusOK, metricsResponse{Score: session.Metrics{}.Score()})
}

// HandleTemplates handles GET /api/templates?category=.
func (h *Handlers) HandleTemplates(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{"items": advisor.Templates(r.URL.Query().Get("category"))})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

