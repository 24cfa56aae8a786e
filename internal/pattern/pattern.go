// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pattern learns transformation rules from example deck/storyboard
// pairs and persists them as the learned-pattern artifact the transformer
// reads. Learning is offline and batch-oriented; application is per-deck
// and lives in internal/transform.
// See docs/ARCHITECTURE § Pattern Learner.
package pattern

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/storyboard-engine/pkg/types"
)

// Built-in fallbacks used when no learned artifact exists.
const (
	defaultAvgSlidesPerSegment = 2.5
	defaultBulletThreshold     = 3
	defaultSplitThreshold      = 200
)

// Default returns the built-in pattern set used when no learned artifact
// is available. The values mirror what learning over typical training
// decks converges to.
func Default() types.PatternSet {
	return types.PatternSet{
		OmitTypes:           []types.SlideType{types.SlideTitle, types.SlideDisclosure, types.SlideReferences},
		CombineTypes:        []types.SlideType{types.SlideContent, types.SlidePatientCase},
		AvgSlidesPerSegment: defaultAvgSlidesPerSegment,
		ChapterSequence: []string{
			"Welcome",
			"Learning objectives",
			"Introduction",
			"Main Content",
			"Summary",
			"Thank you",
		},
		BulletThreshold: defaultBulletThreshold,
		SplitThreshold:  defaultSplitThreshold,
	}
}

// Load reads a learned pattern set. A missing file substitutes the
// built-in defaults; a malformed file is an error. Zero-valued fields
// in a loaded artifact are backfilled with defaults so partial files
// stay usable.
func Load(path string) (types.PatternSet, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return types.PatternSet{}, fmt.Errorf("reading pattern file %s: %w", path, err)
	}

	var ps types.PatternSet
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return types.PatternSet{}, fmt.Errorf("parsing pattern file %s: %w", path, err)
	}

	def := Default()
	if ps.AvgSlidesPerSegment <= 0 {
		ps.AvgSlidesPerSegment = def.AvgSlidesPerSegment
	}
	if len(ps.ChapterSequence) == 0 {
		ps.ChapterSequence = def.ChapterSequence
	}
	if ps.BulletThreshold <= 0 {
		ps.BulletThreshold = def.BulletThreshold
	}
	if ps.SplitThreshold <= 0 {
		ps.SplitThreshold = def.SplitThreshold
	}
	return ps, nil
}

// Save writes the pattern set as a YAML artifact, creating parent
// directories as needed.
func Save(ps types.PatternSet, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating pattern directory: %w", err)
		}
	}
	data, err := yaml.Marshal(ps)
	if err != nil {
		return fmt.Errorf("encoding pattern set: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing pattern file %s: %w", path, err)
	}
	return nil
}
