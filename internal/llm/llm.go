// Package llm is the boundary to the text generators that write test case
// artifacts from prompts.
package llm

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/tcgen/internal/config"
	"github.com/fjglira/tcgen/internal/domain"
)

// TextGenerator turns a prompt into artifact text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// StepFinder looks up shared steps by keyword.
type StepFinder interface {
	FindByKeywords(keywords []string, limit int) []domain.SharedStep
}

// Options configure the remote backends.
type Options struct {
	Model        string
	BaseURL      string
	APIKey       string
	SystemPrompt string
	Temperature  *float64
	MaxTokens    int
}

// Deps are the collaborators of the rule-based backend.
type Deps struct {
	Logger      *logrus.Logger
	SharedSteps StepFinder
	Style       domain.WritingStyle
}

// OptionsFromConfig copies the backend settings out of the generation config.
func OptionsFromConfig(cfg config.GenerationConfig) Options {
	return Options{
		Model:        cfg.Model,
		BaseURL:      cfg.BaseURL,
		APIKey:       cfg.APIKey,
		SystemPrompt: cfg.SystemPrompt,
		Temperature:  cfg.Temperature,
		MaxTokens:    cfg.MaxTokens,
	}
}

// New selects the backend named by cfg.Provider.
func New(ctx context.Context, cfg config.GenerationConfig, deps Deps) (TextGenerator, error) {
	switch cfg.Provider {
	case "", "rule":
		return NewRuleBased(deps.SharedSteps, deps.Style, deps.Logger), nil
	case "openai":
		return NewOpenAI(OptionsFromConfig(cfg))
	case "gemini":
		return NewGemini(ctx, OptionsFromConfig(cfg))
	default:
		return nil, domain.NewErrorWithSuggestion("config", "", 0,
			fmt.Sprintf("unknown generation provider %q", cfg.Provider),
			"set generation.provider to rule, openai or gemini",
			nil)
	}
}
