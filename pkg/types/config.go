// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AIConfig holds shared settings for calls to the Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gemini-2.0-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for transient API
	// failures (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Temperature controls sampling randomness, 0.0-1.0 (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxOutputTokens caps the length of each phase response (default 8192).
	MaxOutputTokens int `json:"max_output_tokens" yaml:"max_output_tokens"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// PipelineConfig holds settings for the sermon pipeline.
type PipelineConfig struct {
	// OutputDir is the base directory for run output. Each run writes its
	// artifacts into a sermon-date subdirectory (e.g. "output/2026 0302/").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// Config groups all settings for the sermon-engine CLI.
type Config struct {
	AI       AIConfig       `json:"ai" yaml:"ai"`
	Pipeline PipelineConfig `json:"pipeline" yaml:"pipeline"`
}

// Defaults used when a field is zero. Kept in one place so the CLI and
// tests agree on them.
const (
	DefaultModel           = "gemini-2.0-flash"
	DefaultMaxRetries      = 3
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 8192
	DefaultTimeout         = 120 * time.Second
	DefaultOutputDir       = "output"
)

// WithDefaults returns a copy of the config with zero fields replaced by
// the package defaults. The API key is never defaulted.
func (c Config) WithDefaults() Config {
	if c.AI.Model == "" {
		c.AI.Model = DefaultModel
	}
	if c.AI.MaxRetries <= 0 {
		c.AI.MaxRetries = DefaultMaxRetries
	}
	if c.AI.Temperature <= 0 {
		c.AI.Temperature = DefaultTemperature
	}
	if c.AI.MaxOutputTokens <= 0 {
		c.AI.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if c.AI.Timeout <= 0 {
		c.AI.Timeout = DefaultTimeout
	}
	if c.Pipeline.OutputDir == "" {
		c.Pipeline.OutputDir = DefaultOutputDir
	}
	return c
}
