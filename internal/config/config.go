package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fjglira/tcgen/internal/domain"
)

// Config is the top-level configuration struct.
type Config struct {
	Input       InputConfig       `yaml:"input"`
	Corpus      CorpusConfig      `yaml:"corpus"`
	Target      TargetConfig      `yaml:"target"`
	Generation  GenerationConfig  `yaml:"generation"`
	Thresholds  ThresholdConfig   `yaml:"thresholds"`
	SharedSteps SharedStepsConfig `yaml:"shared_steps"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	DryRun      bool              `yaml:"dry_run"`
}

type InputConfig struct {
	Documents   []string `yaml:"documents"` // explicit files, read before directory scanning
	Directories []string `yaml:"directories"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	Recursive   *bool    `yaml:"recursive"` // pointer to distinguish unset from false
}

type CorpusConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // "columns" or "tfs"
}

type TargetConfig struct {
	MachineType string `yaml:"machine_type"`
	Version     string `yaml:"version"`
}

type GenerationConfig struct {
	Provider     string   `yaml:"provider"` // "rule", "openai", "gemini"
	Model        string   `yaml:"model"`
	BaseURL      string   `yaml:"base_url"`
	APIKey       string   `yaml:"api_key"`
	Temperature  *float64 `yaml:"temperature"`
	MaxTokens    int      `yaml:"max_tokens"`
	Timeout      string   `yaml:"timeout"`
	Concurrency  int      `yaml:"concurrency"`
	SystemPrompt string   `yaml:"system_prompt"`
	TemplateDir  string   `yaml:"template_dir"`
	Template     string   `yaml:"template"`
	ExampleLimit int      `yaml:"example_limit"`
}

// TimeoutDuration returns the per-call generation timeout, or zero when unset.
func (g GenerationConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(g.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// ThresholdConfig holds the tunable numbers of the planning and mining heuristics.
type ThresholdConfig struct {
	MediumWordCount   int     `yaml:"medium_word_count"`
	HighWordCount     int     `yaml:"high_word_count"`
	PreconditionRatio float64 `yaml:"precondition_ratio"`
	StepMinCount      int     `yaml:"step_min_count"`
	ExampleSampleSize int     `yaml:"example_sample_size"`
}

type SharedStepsConfig struct {
	Directory string `yaml:"directory"`
	Persist   bool   `yaml:"persist"`
}

type OutputConfig struct {
	Directory string `yaml:"directory"`
	File      string `yaml:"file"` // overrides the derived <doc>_<machine>_v<version>.csv name
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads a YAML configuration file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("config", path, 0, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError("config", path, 0, "failed to parse config file", err)
	}

	return cfg, nil
}
