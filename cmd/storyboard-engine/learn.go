// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/storyboard-engine/internal/pattern"
	"github.com/pdiddy/storyboard-engine/pkg/types"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Learn transformation patterns from example pairs",
	Long: `Learn pairs input decks under <examples-dir>/input/ with rendered
storyboards under <examples-dir>/output/ by file stem, aligns output
segments to source slides by word similarity, and aggregates the
evidence into a learned pattern set: commonly omitted slide types,
commonly combined types, the typical chapter sequence, and the average
segment size.`,
	RunE: runLearn,
}

func runLearn(cmd *cobra.Command, args []string) error {
	examplesDir, _ := cmd.Flags().GetString("examples-dir")
	patternsFile, _ := cmd.Flags().GetString("patterns")
	reportFile, _ := cmd.Flags().GetString("report")
	threshold, _ := cmd.Flags().GetFloat64("threshold")

	cfg := types.LearnerConfig{
		ExamplesDir:         defaultString(defaultString(examplesDir, viper.GetString("learner.examples_dir")), "examples"),
		SimilarityThreshold: threshold,
		PatternsFile:        defaultString(defaultString(patternsFile, viper.GetString("learner.patterns_file")), "learned-patterns.yaml"),
		ReportFile:          defaultString(reportFile, viper.GetString("learner.report_file")),
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = viper.GetFloat64("learner.similarity_threshold")
	}

	_, summary, err := pattern.LearnAll(cfg, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "analyzed %d, skipped %d, failed %d (total %d)\n",
		summary.Analyzed, summary.Skipped, summary.Failed, summary.Total())
	if summary.HasFailures() {
		return fmt.Errorf("%d example pair(s) failed analysis", summary.Failed)
	}
	return nil
}

func init() {
	learnCmd.Flags().String("examples-dir", "", "directory with input/ and output/ example pairs (default: examples)")
	learnCmd.Flags().String("patterns", "", "output file for the learned pattern set (default: learned-patterns.yaml)")
	learnCmd.Flags().String("report", "", "optional diagnostic report file")
	learnCmd.Flags().Float64("threshold", 0, "minimum word similarity for a slide to match a segment (default: 0.3)")

	rootCmd.AddCommand(learnCmd)
}

func defaultString(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
