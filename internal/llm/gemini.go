package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini generates artifacts with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	opts   Options
}

// NewGemini creates a Gemini backend.
func NewGemini(ctx context.Context, opts Options) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{client: client, model: model, opts: opts}, nil
}

// Name identifies the backend and model.
func (g *Gemini) Name() string {
	return "gemini/" + g.model
}

// Generate sends the prompt with the system prompt as system instruction.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	gc := &genai.GenerateContentConfig{}
	if g.opts.SystemPrompt != "" {
		gc.SystemInstruction = genai.NewContentFromText(g.opts.SystemPrompt, genai.RoleUser)
	}
	if g.opts.MaxTokens > 0 {
		gc.MaxOutputTokens = int32(g.opts.MaxTokens)
	}
	if g.opts.Temperature != nil {
		gc.Temperature = genai.Ptr(float32(*g.opts.Temperature))
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), gc)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("empty gemini response")
	}
	return text, nil
}
