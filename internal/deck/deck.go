// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package deck loads and validates extracted-deck artifacts produced by
// the extraction collaborator. A malformed or absent deck is the one
// fatal error class of the pipeline: everything downstream assumes
// 1-based, contiguous slide numbers.
// See docs/ARCHITECTURE § Deck Input.
package deck

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/storyboard-engine/pkg/types"
)

// Load reads an extracted-deck artifact (YAML or JSON) and validates it.
func Load(path string) (*types.Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck %s: %w", path, err)
	}

	var d types.Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing deck %s: %w", path, err)
	}

	if err := Validate(&d); err != nil {
		return nil, fmt.Errorf("invalid deck %s: %w", path, err)
	}
	return &d, nil
}

// Validate checks the deck invariants: slide numbers are 1-based and
// contiguous, and every slide has a non-nil text list. An empty deck
// (zero slides) is valid.
func Validate(d *types.Deck) error {
	if d == nil {
		return fmt.Errorf("deck is nil")
	}
	for i, s := range d.Slides {
		if s.Number != i+1 {
			return fmt.Errorf("slide at index %d has number %d, want %d (numbers must be 1-based and contiguous)", i, s.Number, i+1)
		}
		if s.MediaCount < 0 {
			return fmt.Errorf("slide %d has negative media count", s.Number)
		}
	}
	return nil
}
