// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/storyboard-engine/internal/classify"
	"github.com/pdiddy/storyboard-engine/internal/deck"
	"github.com/pdiddy/storyboard-engine/internal/pattern"
	"github.com/pdiddy/storyboard-engine/internal/transform"
)

var applyCmd = &cobra.Command{
	Use:   "apply <deck>",
	Short: "Apply a learned pattern set to a deck",
	Long: `Apply classifies the deck and transforms it with a learned pattern
set: slides of commonly-omitted types are dropped (and recorded), the
rest are grouped into segment-sized runs and mapped onto the learned
chapter sequence. A missing pattern file substitutes the built-in
defaults.`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	d, err := deck.Load(args[0])
	if err != nil {
		return err
	}

	patternsFile, _ := cmd.Flags().GetString("patterns")
	patternsFile = defaultString(patternsFile, viper.GetString("transform.patterns_file"))
	ps, err := pattern.Load(patternsFile)
	if err != nil {
		return err
	}

	classifier, err := classify.New(classify.Catalog)
	if err != nil {
		return err
	}
	slideTypes := classifier.ClassifyDeck(d)

	result := transform.Apply(d, slideTypes, ps)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	outPath, _ := cmd.Flags().GetString("output")

	var data []byte
	if jsonOutput {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = yaml.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if outPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", outPath)
	return nil
}

func init() {
	applyCmd.Flags().String("patterns", "", "learned pattern file (default: built-in defaults)")
	applyCmd.Flags().String("output", "", "output file (default: stdout)")
	applyCmd.Flags().Bool("json", false, "output as JSON instead of YAML")

	rootCmd.AddCommand(applyCmd)
}
