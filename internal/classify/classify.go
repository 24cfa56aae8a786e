// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify scores slides against a fixed catalog of semantic
// categories and assigns each slide exactly one type. Classification is
// deterministic: the same deck always yields the same assignments.
// See docs/ARCHITECTURE § Slide Classifier.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/storyboard-engine/pkg/types"
)

// Scoring weights. A pattern match outweighs a keyword hit; the title
// bonus outweighs both so short opening slides beat keyword noise.
const (
	patternScore  = 10
	keywordScore  = 5
	titleBonus    = 20
	titleMaxSlide = 3
	citationScore = 5
)

// urlPattern and citationPattern feed the references bonus: +5 per URL
// or citation-shaped substring, counted on the original-case text.
var (
	urlPattern      = regexp.MustCompile(`https?://\S+`)
	citationPattern = regexp.MustCompile(`\d+\.\s+[A-Z][a-zA-Z]+.*\d{4}`)
)

// compiledCategory pairs a catalog entry with its compiled patterns.
type compiledCategory struct {
	Category
	patterns []*regexp.Regexp
}

// Classifier assigns slide types using a compiled catalog.
type Classifier struct {
	categories []compiledCategory
}

// New compiles the given catalog. Pass Catalog for the default set.
func New(catalog []Category) (*Classifier, error) {
	c := &Classifier{}
	for _, cat := range catalog {
		cc := compiledCategory{Category: cat}
		for _, p := range cat.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("category %s: compiling pattern %q: %w", cat.Type, p, err)
			}
			cc.patterns = append(cc.patterns, re)
		}
		c.categories = append(c.categories, cc)
	}
	return c, nil
}

// Classify returns the slide's type: the strictly best-scoring category,
// with ties broken by priority and then catalog order. A slide scoring
// zero everywhere defaults to content.
func (c *Classifier) Classify(slide types.Slide) types.SlideType {
	text := slide.Text()
	lower := strings.ToLower(text)

	best := types.SlideContent
	bestScore := 0
	bestPriority := 0

	for _, cat := range c.categories {
		score := 0
		for _, re := range cat.patterns {
			if re.MatchString(lower) {
				score += patternScore
			}
		}
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				score += keywordScore
			}
		}

		switch cat.Type {
		case types.SlideTitle:
			if slide.WordCount() <= cat.MaxWords && slide.Number <= titleMaxSlide {
				score += titleBonus
			}
		case types.SlideReferences:
			hits := len(urlPattern.FindAllString(text, -1)) + len(citationPattern.FindAllString(text, -1))
			score += hits * citationScore
		}

		if score > bestScore || (score == bestScore && score > 0 && cat.Priority < bestPriority) {
			best = cat.Type
			bestScore = score
			bestPriority = cat.Priority
		}
	}

	if bestScore == 0 {
		return types.SlideContent
	}
	return best
}

// ClassifyDeck classifies every slide and returns the assignment map
// keyed by slide number.
func (c *Classifier) ClassifyDeck(d *types.Deck) map[int]types.SlideType {
	out := make(map[int]types.SlideType, len(d.Slides))
	for _, s := range d.Slides {
		out[s.Number] = c.Classify(s)
	}
	return out
}
