package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override the configuration file.
const (
	EnvProvider    = "TCGEN_PROVIDER"
	EnvModel       = "TCGEN_MODEL"
	EnvOutputDir   = "TCGEN_OUTPUT_DIR"
	EnvConcurrency = "TCGEN_CONCURRENCY"
	EnvOpenAIKey   = "OPENAI_API_KEY"
	EnvGeminiKey   = "GEMINI_API_KEY"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}

// ApplyEnv overrides configuration values with environment variables.
func ApplyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvProvider); ok && v != "" {
		cfg.Generation.Provider = v
	}
	if v, ok := os.LookupEnv(EnvModel); ok && v != "" {
		cfg.Generation.Model = v
	}
	if v, ok := os.LookupEnv(EnvOutputDir); ok && v != "" {
		cfg.Output.Directory = v
	}
	if v, ok := os.LookupEnv(EnvConcurrency); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Generation.Concurrency = n
		}
	}

	if cfg.Generation.APIKey == "" {
		switch cfg.Generation.Provider {
		case "openai":
			cfg.Generation.APIKey = os.Getenv(EnvOpenAIKey)
		case "gemini":
			cfg.Generation.APIKey = os.Getenv(EnvGeminiKey)
		}
	}
}
