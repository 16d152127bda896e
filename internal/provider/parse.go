package provider

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/hpungsan/erde/internal/advisor"
)

const estimatedExplanation = "Model returned raw text. Optimization metrics are estimated."

// payload is the structured shape requested from the model.
type payload struct {
	OptimizedText       string `json:"optimizedText"`
	OriginalTokens      number `json:"originalTokens"`
	OptimizedTokens     number `json:"optimizedTokens"`
	ReductionPercentage number `json:"reductionPercentage"`
	Explanation         string `json:"explanation"`

	estimated bool
}

// number decodes a JSON number or numeric string. Anything else leaves it
// unset, so one malformed metric does not reject the whole payload.
type number struct {
	v *float64
}

func (n *number) UnmarshalJSON(b []byte) error {
	n.v = nil
	var f float64
	if err := json.Unmarshal(b, &f); err == nil && string(b) != "null" {
		n.v = &f
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			n.v = &f
		}
	}
	return nil
}

// parseStage tries to recover a payload from raw model output.
type parseStage func(raw string) (*payload, bool)

// parseChain is tried in order; the first stage that succeeds wins.
var parseChain = []parseStage{parseStrict, parseFenced}

// parseResponse normalizes raw model output into a result. It never fails:
// text that no stage understands is wrapped as-is with estimated metrics.
func parseResponse(prompt, raw string) OptimizationResult {
	var p *payload
	ok := false
	for _, stage := range parseChain {
		if p, ok = stage(raw); ok {
			break
		}
	}
	if !ok {
		p = synthesize(prompt, raw)
	}

	reduction := clampPercent(p.ReductionPercentage.v)
	return OptimizationResult{
		OriginalText:        prompt,
		OptimizedText:       p.OptimizedText,
		OriginalTokens:      roundCount(p.OriginalTokens.v),
		OptimizedTokens:     roundCount(p.OptimizedTokens.v),
		ReductionPercentage: reduction,
		Explanation:         p.Explanation,
		EnergySaved:         energyLabel(reduction),
		MetricsEstimated:    p.estimated,
	}
}

// parseStrict accepts output that is a JSON object with optimizedText.
func parseStrict(raw string) (*payload, bool) {
	var p payload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &p); err != nil {
		return nil, false
	}
	if strings.TrimSpace(p.OptimizedText) == "" {
		return nil, false
	}
	return &p, true
}

// parseFenced looks for JSON inside markdown code. Fenced blocks labelled
// json are tried first, then other fenced blocks, then inline code spans.
func parseFenced(raw string) (*payload, bool) {
	src := []byte(raw)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var labelled, plain, spans []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock:
			body := blockText(node, src)
			if strings.EqualFold(string(node.Language(src)), "json") {
				labelled = append(labelled, body)
			} else {
				plain = append(plain, body)
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeSpan:
			spans = append(spans, spanText(node, src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, group := range [][]string{labelled, plain, spans} {
		for _, candidate := range group {
			if p, ok := parseStrict(candidate); ok {
				return p, true
			}
		}
	}
	return nil, false
}

func blockText(n *ast.FencedCodeBlock, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}

func spanText(n *ast.CodeSpan, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
		}
	}
	return buf.String()
}

// synthesize wraps unstructured output, estimating tokens from length.
func synthesize(prompt, raw string) *payload {
	orig := float64(advisor.EstimateTokens(prompt))
	opt := float64(advisor.EstimateTokens(raw))
	zero := 0.0
	return &payload{
		OptimizedText:       raw,
		OriginalTokens:      number{&orig},
		OptimizedTokens:     number{&opt},
		ReductionPercentage: number{&zero},
		Explanation:         estimatedExplanation,
		estimated:           true,
	}
}

// clampPercent bounds a reported reduction to [0,100]. Missing or NaN is 0.
func clampPercent(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	return math.Max(0, math.Min(100, *v))
}

// maxCount caps reported token counts before conversion to int.
const maxCount = math.MaxInt32

func roundCount(v *float64) int {
	if v == nil || math.IsNaN(*v) || *v < 0 {
		return 0
	}
	if *v >= maxCount {
		return maxCount
	}
	return int(math.Round(*v))
}

func energyLabel(reduction float64) string {
	if reduction > 25 {
		return EnergyHigh
	}
	return EnergyModerate
}
