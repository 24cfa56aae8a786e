// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/storyboard-engine/internal/classify"
	"github.com/pdiddy/storyboard-engine/internal/deck"
	"github.com/pdiddy/storyboard-engine/internal/outline"
	"github.com/pdiddy/storyboard-engine/pkg/types"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <deck>",
	Short: "Generate a full storyboard outline from a deck",
	Long: `Outline runs the direct generation path: classify every slide, group
slides into template chapters and subchapters, extract or generate
learning objectives, collect per-slide references, and resolve
abbreviations. The result is a storyboard artifact written as YAML.`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

func runOutline(cmd *cobra.Command, args []string) error {
	d, err := deck.Load(args[0])
	if err != nil {
		return err
	}

	classifier, err := classify.New(classify.Catalog)
	if err != nil {
		return err
	}
	slideTypes := classifier.ClassifyDeck(d)

	chapters := outline.Synthesize(d, slideTypes)

	objectives := outline.ExtractObjectives(d)
	if len(objectives) == 0 {
		objectives = outline.GenerateObjectives(d, slideTypes)
	}

	resolver, closeSources, err := resolverFromFlags(cmd)
	if err != nil {
		return err
	}
	defer closeSources()

	abbrevs, warnings, err := resolver.Resolve(context.Background(), d, os.Stderr)
	if err != nil {
		return err
	}

	sb := types.Storyboard{
		Title:         deckTitle(d),
		Chapters:      chapters,
		Abbreviations: abbrevs,
		Objectives:    objectives,
		References:    outline.ExtractReferences(d),
		Warnings:      warnings,
	}
	for _, token := range warnings {
		fmt.Fprintf(os.Stderr, "warning: no definition found for %s\n", token)
	}

	return writeStoryboard(cmd, sb)
}

// deckTitle uses the first text of slide 1 when present, else the source
// file stem.
func deckTitle(d *types.Deck) string {
	if len(d.Slides) > 0 && len(d.Slides[0].Texts) > 0 {
		if t := strings.TrimSpace(d.Slides[0].Texts[0].Text); t != "" {
			return t
		}
	}
	base := filepath.Base(d.Source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeStoryboard(cmd *cobra.Command, sb types.Storyboard) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	outPath, _ := cmd.Flags().GetString("output")

	var data []byte
	var err error
	if jsonOutput {
		data, err = json.MarshalIndent(sb, "", "  ")
	} else {
		data, err = yaml.Marshal(sb)
	}
	if err != nil {
		return fmt.Errorf("encoding storyboard: %w", err)
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
	outlineCmd.Flags().String("output", "", "output file (default: stdout)")
	outlineCmd.Flags().Bool("json", false, "output as JSON instead of YAML")
	addResolverFlags(outlineCmd)

	rootCmd.AddCommand(outlineCmd)
}
