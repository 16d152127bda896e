package provider

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/hpungsan/erde/internal/advisor"
	"github.com/hpungsan/erde/internal/errors"
)

const systemPrefix = "You are an expert AI prompt engineer. Optimize this prompt to be concise and token-efficient while preserving intent:\n\n"

// DefaultModel is used when the configured model has no alias.
const DefaultModel = "gemini-2.0-flash"

// autoPilotProChars is the prompt length above which autoPilot dispatches to
// the pro tier.
const autoPilotProChars = 3000

// DefaultAliases maps configurable model names to provider model ids.
func DefaultAliases() map[string]string {
	return map[string]string{
		"gemini-3-pro-preview":    "gemini-3-pro-preview",
		"gemini-3-flash-preview":  "gemini-3-flash-preview",
		"gemini-2.5-flash-latest": "gemini-2.5-flash",
		"gemini-1.5-flash":        "gemini-2.0-flash",
		"gemini-1.5-pro":          "gemini-2.5-pro",
	}
}

// DefaultFallbacks are tried in order after the selected model.
func DefaultFallbacks() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-2.0-flash-lite",
		"gemini-2.0-flash",
		"gemini-exp-1206",
	}
}

// Options configures an Orchestrator. Zero values select the defaults.
type Options struct {
	DefaultAPIKey string
	Aliases       map[string]string
	Fallbacks     []string
	Logger        logrus.FieldLogger
}

// Orchestrator selects a model and walks the candidate list until one
// produces a response.
type Orchestrator struct {
	gen        Generator
	defaultKey string
	aliases    map[string]string
	fallbacks  []string
	log        logrus.FieldLogger
}

// NewOrchestrator creates an Orchestrator over gen.
func NewOrchestrator(gen Generator, opts Options) *Orchestrator {
	o := &Orchestrator{
		gen:        gen,
		defaultKey: strings.TrimSpace(opts.DefaultAPIKey),
		aliases:    opts.Aliases,
		fallbacks:  opts.Fallbacks,
		log:        opts.Logger,
	}
	if o.aliases == nil {
		o.aliases = DefaultAliases()
	}
	if o.fallbacks == nil {
		o.fallbacks = DefaultFallbacks()
	}
	if o.log == nil {
		o.log = logrus.StandardLogger()
	}
	return o
}

// SelectModel resolves the primary model for a prompt.
// AutoPilot overrides the alias table.
func (o *Orchestrator) SelectModel(cfg advisor.OptimizationConfig, prompt string) string {
	if cfg.AutoPilot {
		if utf8.RuneCountInString(prompt) > autoPilotProChars {
			return advisor.ModelPro
		}
		return advisor.ModelFlash
	}
	if id, ok := o.aliases[cfg.Model]; ok {
		return id
	}
	return DefaultModel
}

// Candidates returns the ordered, de-duplicated model list for a prompt.
func (o *Orchestrator) Candidates(cfg advisor.OptimizationConfig, prompt string) []string {
	all := append([]string{o.SelectModel(cfg, prompt)}, o.fallbacks...)
	return lo.Uniq(lo.Compact(all))
}

// resolveKey prefers the per-request override to the configured default.
func (o *Orchestrator) resolveKey(cfg advisor.OptimizationConfig) string {
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		return key
	}
	return o.defaultKey
}

// Optimize sends req to each candidate model in turn. The first non-empty
// response wins. Attempts are strictly sequential with no backoff.
func (o *Orchestrator) Optimize(ctx context.Context, req Request) (*OptimizationResult, error) {
	key := o.resolveKey(req.Config)
	if key == "" {
		o.log.WithField("event", "missing_credential").Warn("no API key in request or configuration")
		return nil, errors.NewMissingCredential()
	}

	candidates := o.Candidates(req.Config, req.Prompt)
	prompt := buildPrompt(req.Prompt, req.Instructions)

	o.log.WithFields(logrus.Fields{
		"event":      "optimize_start",
		"candidates": strings.Join(candidates, ","),
	}).Info("starting optimization sequence")

	var lastErr error
	for i, model := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("optimize: %w", err)
		}

		entry := o.log.WithFields(logrus.Fields{
			"event":   "attempt",
			"model":   model,
			"attempt": i + 1,
		})
		entry.Debug("attempting generation")

		raw, err := o.gen.Generate(ctx, GenerateRequest{
			APIKey:          key,
			Model:           model,
			Prompt:          prompt,
			Temperature:     req.Config.Temperature,
			MaxOutputTokens: req.Config.OutputLengthConstraint,
		})
		if err != nil {
			lastErr = err
			entry.WithError(err).Warn("model failed")
			continue
		}
		if strings.TrimSpace(raw) == "" {
			entry.Warn("model returned empty response")
			continue
		}

		result := parseResponse(req.Prompt, raw)
		result.UsedModel = model
		entry.WithFields(logrus.Fields{
			"event":     "optimize_success",
			"reduction": result.ReductionPercentage,
			"estimated": result.MetricsEstimated,
		}).Info("optimization succeeded")
		return &result, nil
	}

	o.log.WithFields(logrus.Fields{
		"event":      "optimize_exhausted",
		"candidates": strings.Join(candidates, ","),
	}).Error("all candidate models failed")
	return nil, errors.NewProviderExhausted(lastErr, candidates)
}

func buildPrompt(prompt, instructions string) string {
	if instructions == "" {
		return systemPrefix + prompt
	}
	return systemPrefix + prompt + "\n\n" + instructions
}
