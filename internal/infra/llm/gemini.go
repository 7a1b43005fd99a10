// Package llm provides text generation backends.
package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/vietddude/glossary/internal/core/domain"
)

// Backend names accepted in configuration.
const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"
)

// Config holds the generation client settings.
type Config struct {
	Model       string
	APIKey      string
	Backend     string
	Project     string
	Location    string
	Temperature float32
}

// GeminiClient generates text with the Gemini API or Vertex AI.
type GeminiClient struct {
	models      *genai.Models
	modelName   string
	temperature float32
}

// NewGeminiClient creates a GeminiClient for the configured backend.
func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	if cfg.Model == "" {
		return nil, errors.New("generation model must be set")
	}

	cc := &genai.ClientConfig{}
	switch cfg.Backend {
	case "", BackendGemini:
		if cfg.APIKey == "" {
			return nil, errors.New("GEMINI_API_KEY must be set for the gemini backend")
		}
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	case BackendVertex:
		if cfg.Project == "" || cfg.Location == "" {
			return nil, errors.New("project and location must be set for the vertex backend")
		}
		cc.Project = cfg.Project
		cc.Location = cfg.Location
		cc.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("unknown generation backend %q", cfg.Backend)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &GeminiClient{
		models:      client.Models,
		modelName:   cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Generate sends prompt as a single user turn and returns the response text.
// Blocked prompts are reported as domain.ErrRejectedInput.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	var cfg *genai.GenerateContentConfig
	if g.temperature > 0 {
		temp := g.temperature
		cfg = &genai.GenerateContentConfig{Temperature: &temp}
	}

	res, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	return ResponseText(res)
}

// ResponseText extracts the text of a response, mapping safety blocks to
// domain.ErrRejectedInput.
func ResponseText(res *genai.GenerateContentResponse) (string, error) {
	if res == nil {
		return "", errors.New("empty generation response")
	}

	if fb := res.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		return "", fmt.Errorf("%w: prompt blocked: %s", domain.ErrRejectedInput, fb.BlockReason)
	}

	if len(res.Candidates) > 0 && res.Candidates[0] != nil {
		switch reason := res.Candidates[0].FinishReason; reason {
		case genai.FinishReasonSafety, genai.FinishReasonBlocklist, genai.FinishReasonProhibitedContent:
			return "", fmt.Errorf("%w: response blocked: %s", domain.ErrRejectedInput, reason)
		}
	}

	text := res.Text()
	if text == "" {
		return "", errors.New("generation returned empty text")
	}
	return text, nil
}
