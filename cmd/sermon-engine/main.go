// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sermon-engine CLI, which drives
// the five-phase sermon writing pipeline against the Gemini API and
// exports the result as a Word document.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jdyun/sermon-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the sermon-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "sermon-engine",
	Short: "Automated five-phase sermon preparation",
	Long: `sermon-engine turns a Bible passage range into a complete sermon package.
It runs five phases in order — passage selection, outline, persona feedback,
manuscript draft, and final package — feeding each phase's output into the
next, saving every intermediate result, and exporting the finished sermon
as a .docx document.

Runs are recorded in a local history database; aborted runs can be resumed
with 'run --resume' and finished runs re-exported with 'export'.`,
	// Errors are printed once, styled, in main.
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A local .env file may carry GEMINI_API_KEY; missing is fine.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading .env: %w", err)
		}
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sermon-engine.yaml or ~/.config/sermon-engine/config.yaml)")
	rootCmd.PersistentFlags().String("output-dir", "", "base directory for run output and history")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sermon-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sermon-engine"))
		}
	}

	viper.SetEnvPrefix("SERMON_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failLine(err))
		os.Exit(1)
	}
}
