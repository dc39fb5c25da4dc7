package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fjglira/tcgen/internal/domain"
)

var validProviders = map[string]bool{"rule": true, "openai": true, "gemini": true}

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	// Input validation
	if len(cfg.Input.Documents) == 0 && len(cfg.Input.Directories) == 0 {
		errs = append(errs, "input.documents or input.directories must not be empty")
	}
	if len(cfg.Input.Directories) > 0 && len(cfg.Input.Include) == 0 {
		errs = append(errs, "input.include must not be empty when input.directories is set")
	}

	// Corpus validation
	if cfg.Corpus.Format != "" && cfg.Corpus.Format != "columns" && cfg.Corpus.Format != "tfs" {
		errs = append(errs, fmt.Sprintf("corpus.format must be one of: columns, tfs (got %q)", cfg.Corpus.Format))
	}

	// Generation validation
	if !validProviders[cfg.Generation.Provider] {
		errs = append(errs, fmt.Sprintf("generation.provider must be one of: rule, openai, gemini (got %q)", cfg.Generation.Provider))
	}
	if cfg.Generation.Provider == "openai" || cfg.Generation.Provider == "gemini" {
		if cfg.Generation.APIKey == "" {
			errs = append(errs, fmt.Sprintf("generation.api_key must be set for provider %q (or export the provider API key)", cfg.Generation.Provider))
		}
	}
	if cfg.Generation.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Generation.Timeout); err != nil {
			errs = append(errs, fmt.Sprintf("generation.timeout is not a valid duration: %v", err))
		}
	}
	if cfg.Generation.Concurrency < 1 {
		errs = append(errs, "generation.concurrency must be at least 1")
	}
	if cfg.Generation.Temperature != nil && (*cfg.Generation.Temperature < 0 || *cfg.Generation.Temperature > 2) {
		errs = append(errs, "generation.temperature must be between 0 and 2")
	}
	if cfg.Generation.ExampleLimit < 0 {
		errs = append(errs, "generation.example_limit must not be negative")
	}
	if cfg.Generation.Template == "" {
		errs = append(errs, "generation.template must not be empty")
	}

	// Threshold validation
	t := cfg.Thresholds
	if t.MediumWordCount <= 0 || t.HighWordCount <= t.MediumWordCount {
		errs = append(errs, "thresholds.high_word_count must be greater than thresholds.medium_word_count, both positive")
	}
	if t.PreconditionRatio <= 0 || t.PreconditionRatio > 1 {
		errs = append(errs, "thresholds.precondition_ratio must be in (0, 1]")
	}
	if t.StepMinCount < 1 {
		errs = append(errs, "thresholds.step_min_count must be at least 1")
	}
	if t.ExampleSampleSize < 0 {
		errs = append(errs, "thresholds.example_sample_size must not be negative")
	}

	// Output validation
	if cfg.Output.Directory == "" && cfg.Output.File == "" {
		errs = append(errs, "output.directory must not be empty")
	}
	if cfg.Output.File != "" && !strings.HasSuffix(cfg.Output.File, ".csv") {
		errs = append(errs, "output.file must end with .csv")
	}

	// Validate logging level
	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", 0, fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}
