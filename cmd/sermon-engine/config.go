// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jdyun/sermon-engine/internal/secrets"
	"github.com/jdyun/sermon-engine/pkg/types"
)

// errMissingAPIKey is the pre-flight configuration error raised before any
// API call is attempted.
var errMissingAPIKey = errors.New(`GEMINI_API_KEY가 설정되지 않았습니다.
  1. .env 파일에 GEMINI_API_KEY를 입력하거나
  2. .secrets/gemini-api-key 파일에 키를 저장하세요.
  3. 키는 https://aistudio.google.com/app/apikey 에서 발급받을 수 있습니다`)

// resolveConfig assembles the effective configuration. Precedence for the
// API key: config file, then .secrets/, then the GEMINI_API_KEY
// environment variable. A missing key fails here, before anything runs.
func resolveConfig(cmd *cobra.Command) (types.Config, error) {
	var cfg types.Config

	if f := cmd.Flags().Lookup("model"); f != nil && f.Value.String() != "" {
		cfg.AI.Model = f.Value.String()
	} else {
		cfg.AI.Model = viper.GetString("ai.model")
	}

	cfg.AI.APIKey = viper.GetString("ai.api_key")
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = loadedSecrets[secrets.GeminiAPIKey]
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	cfg.AI.MaxRetries = viper.GetInt("ai.max_retries")
	cfg.AI.Temperature = viper.GetFloat64("ai.temperature")
	cfg.AI.MaxOutputTokens = viper.GetInt("ai.max_output_tokens")
	cfg.AI.Timeout = viper.GetDuration("ai.timeout")

	cfg.Pipeline.OutputDir = outputDir()

	cfg = cfg.WithDefaults()

	if cfg.AI.APIKey == "" {
		return cfg, errMissingAPIKey
	}
	return cfg, nil
}

// outputDir resolves the output directory without requiring credentials,
// so history and export work with no API key configured.
func outputDir() string {
	if dir, _ := rootCmd.PersistentFlags().GetString("output-dir"); dir != "" {
		return dir
	}
	if dir := viper.GetString("pipeline.output_dir"); dir != "" {
		return dir
	}
	return types.DefaultOutputDir
}
