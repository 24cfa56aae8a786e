// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pattern

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/storyboard-engine/pkg/types"
)

// Report is the learner's diagnostic artifact: per-pair alignment
// numbers so a curator can see which examples drove the learned rules
// and which aligned poorly.
type Report struct {
	Threshold float64      `yaml:"threshold"`
	Pairs     []PairReport `yaml:"pairs"`
}

// PairReport summarizes the alignment of one example pair.
type PairReport struct {
	Name            string   `yaml:"name"`
	Slides          int      `yaml:"slides"`
	Segments        int      `yaml:"segments"`
	MatchedSegments int      `yaml:"matched_segments"`
	MatchedSlides   int      `yaml:"matched_slides"`
	OmittedTypes    []string `yaml:"omitted_types,omitempty"`
	CombinedTypes   []string `yaml:"combined_types,omitempty"`

	// CombinationShapes counts each observed shape, keyed by the sorted
	// member types joined with "+".
	CombinationShapes map[string]int `yaml:"combination_shapes,omitempty"`
	ChapterSequence   []string       `yaml:"chapter_sequence,omitempty"`
}

func pairReport(a pairAnalysis) PairReport {
	return PairReport{
		Name:              a.Name,
		Slides:            a.SlideCount,
		Segments:          a.SegmentCount,
		MatchedSegments:   a.MatchedSegments,
		MatchedSlides:     a.MatchedSlides,
		OmittedTypes:      typeNames(a.OmittedTypes),
		CombinedTypes:     typeNames(a.CombinedTypes),
		CombinationShapes: a.CombinedShapes,
		ChapterSequence:   a.ChapterSequence,
	}
}

func typeNames(counts map[types.SlideType]int) []string {
	var names []string
	for t := range counts {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return names
}

// Save writes the report as YAML, creating parent directories as needed.
func (r Report) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
