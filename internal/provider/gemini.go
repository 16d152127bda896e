package provider

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// responseSchema is the structured output requested from Gemini.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"optimizedText":       {Type: genai.TypeString},
		"originalTokens":      {Type: genai.TypeNumber},
		"optimizedTokens":     {Type: genai.TypeNumber},
		"reductionPercentage": {Type: genai.TypeNumber},
		"explanation":         {Type: genai.TypeString},
	},
}

// GeminiGenerator calls the Gemini API. Only the client for the server's
// default key is kept; per-request keys get a client that is not stored.
type GeminiGenerator struct {
	defaultKey string

	mu     sync.Mutex
	shared *genai.Client
}

// NewGeminiGenerator returns a generator backed by the Gemini API.
func NewGeminiGenerator(defaultKey string) *GeminiGenerator {
	return &GeminiGenerator{defaultKey: strings.TrimSpace(defaultKey)}
}

func (g *GeminiGenerator) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" || apiKey != g.defaultKey {
		return newGeminiClient(ctx, apiKey)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.shared == nil {
		c, err := newGeminiClient(ctx, apiKey)
		if err != nil {
			return nil, err
		}
		g.shared = c
	}
	return g.shared, nil
}

func newGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return c, nil
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	c, err := g.client(ctx, req.APIKey)
	if err != nil {
		return "", err
	}

	temperature := float32(req.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	}
	if req.MaxOutputTokens > 0 {
		config.MaxOutputTokens = int32(min(req.MaxOutputTokens, math.MaxInt32))
	}

	content := genai.NewContentFromText(req.Prompt, genai.RoleUser)
	resp, err := c.Models.GenerateContent(ctx, req.Model, []*genai.Content{content}, config)
	if err != nil {
		return "", fmt.Errorf("generate with %s: %w", req.Model, err)
	}
	return responseText(resp)
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response candidates")
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", fmt.Errorf("response has no content parts")
	}
	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("response is not text")
	}
	return sb.String(), nil
}
