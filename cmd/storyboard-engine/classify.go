// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/storyboard-engine/internal/classify"
	"github.com/pdiddy/storyboard-engine/internal/deck"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <deck>",
	Short: "Classify each slide of a deck by semantic role",
	Long: `Classify loads an extracted deck and scores every slide against the
category catalog (title, disclosure, objectives, patient case, clinical
data, treatment, conclusion, references, questions). Slides matching no
category default to content.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	d, err := deck.Load(args[0])
	if err != nil {
		return err
	}

	classifier, err := classify.New(classify.Catalog)
	if err != nil {
		return err
	}
	slideTypes := classifier.ClassifyDeck(d)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(slideTypes)
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-14s  %s\n", "Slide", "Type", "Text")
	for _, slide := range d.Slides {
		text := slide.Text()
		if len(text) > 60 {
			text = text[:57] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-6d  %-14s  %s\n", slide.Number, slideTypes[slide.Number], text)
	}
	return nil
}

func init() {
	classifyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(classifyCmd)
}
