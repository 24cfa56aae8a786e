// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the storyboard-engine CLI.
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/storyboard-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns explicit when set, so flag values win; otherwise
// it falls back to the secret loaded for key, or empty when neither exists.
func secretDefault(key, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the storyboard-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "storyboard-engine",
	Short: "Convert presentation decks into structured storyboard documents",
	Long: `storyboard-engine converts extracted presentation decks into structured
training storyboards. It classifies each slide's semantic role, groups
slides into a chapter/subchapter outline, extracts and resolves clinical
abbreviations, and can learn transformation patterns from prior example
pairs and replay them on new decks.

Each stage is a subcommand: classify, outline, abbrev, learn, and apply.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./storyboard-engine.yaml or ~/.config/storyboard-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("storyboard-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "storyboard-engine"))
		}
	}

	viper.SetEnvPrefix("STORYBOARD_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
