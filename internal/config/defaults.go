package config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	recursive := true
	return &Config{
		Input: InputConfig{
			Directories: []string{"docs"},
			Include:     []string{"*.txt", "*.md", "*.adoc"},
			Exclude:     []string{"vendor/**", "node_modules/**"},
			Recursive:   &recursive,
		},
		Corpus: CorpusConfig{
			Format: "columns",
		},
		Generation: GenerationConfig{
			Provider:     "rule",
			MaxTokens:    2000,
			Timeout:      "60s",
			Concurrency:  4,
			SystemPrompt: "You are an expert test engineer who specializes in writing detailed, professional manual test cases.",
			Template:     "test_case",
			ExampleLimit: 3,
		},
		Thresholds: ThresholdConfig{
			MediumWordCount:   50,
			HighWordCount:     100,
			PreconditionRatio: 0.3,
			StepMinCount:      2,
			ExampleSampleSize: 3,
		},
		SharedSteps: SharedStepsConfig{
			Directory: "data/shared_steps",
			Persist:   true,
		},
		Output: OutputConfig{
			Directory: "output",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		DryRun: false,
	}
}
