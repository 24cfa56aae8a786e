// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outline assembles classified slides into an ordered chapter
// and subchapter structure following a fixed logical template. Every
// slide lands in exactly one chapter; leftovers go to a catch-all.
// See docs/ARCHITECTURE § Chapter Synthesizer.
package outline

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/storyboard-engine/pkg/types"
)

// subchapterMinSlides is the Main Content size above which a secondary
// pass looks for section-header slides to split on.
const subchapterMinSlides = 5

// Extractor produces a chapter outline from one input form. The deck
// implementation below identifies structure by slide-type rules; the
// storydoc package provides the style/label-based implementation for
// already-rendered documents.
type Extractor interface {
	Outline() ([]types.Chapter, error)
}

// DeckExtractor adapts a classified deck to the Extractor interface.
type DeckExtractor struct {
	Deck  *types.Deck
	Types map[int]types.SlideType
}

// Outline synthesizes the deck's chapter structure.
func (e DeckExtractor) Outline() ([]types.Chapter, error) {
	return Synthesize(e.Deck, e.Types), nil
}

// Synthesize builds the ordered chapter list for a classified deck.
// Template entries claim slides in order; the Main Content entry absorbs
// everything unclaimed when it would otherwise be empty, and any slide
// no entry claims ends up in a trailing catch-all chapter. An empty deck
// yields the single fallback chapter with no members.
func Synthesize(d *types.Deck, slideTypes map[int]types.SlideType) []types.Chapter {
	var chapters []types.Chapter
	claimed := make(map[int]bool)

	for _, def := range Template {
		var members []int
		for _, s := range d.Slides {
			if claimed[s.Number] {
				continue
			}
			if typeIn(slideTypes[s.Number], def.Types) {
				members = append(members, s.Number)
				claimed[s.Number] = true
			}
		}

		// A required-but-empty Main Content claims all leftovers instead.
		if len(members) == 0 && def.Name == mainContentChapter {
			for _, s := range d.Slides {
				if !claimed[s.Number] {
					members = append(members, s.Number)
					claimed[s.Number] = true
				}
			}
		}

		if len(members) == 0 {
			continue
		}
		sort.Ints(members)

		ch := types.Chapter{
			Title:       def.Name,
			AnchorSlide: members[0],
			Slides:      members,
		}
		if def.Name == mainContentChapter && len(members) > subchapterMinSlides {
			ch.Subchapters = splitSubchapters(d, members)
		}
		chapters = append(chapters, ch)
	}

	// Catch-all for slides no template entry accepted.
	var leftovers []int
	for _, s := range d.Slides {
		if !claimed[s.Number] {
			leftovers = append(leftovers, s.Number)
		}
	}
	if len(leftovers) > 0 {
		sort.Ints(leftovers)
		chapters = append(chapters, types.Chapter{
			Title:       catchAllChapter,
			AnchorSlide: leftovers[0],
			Slides:      leftovers,
		})
	}

	if len(chapters) == 0 {
		all := make([]int, 0, len(d.Slides))
		for _, s := range d.Slides {
			all = append(all, s.Number)
		}
		chapters = append(chapters, types.Chapter{
			Title:       fallbackChapter,
			AnchorSlide: 1,
			Slides:      all,
		})
	}

	return chapters
}

// splitSubchapters walks the member slides looking for section-header
// slides; each header opens a new subchapter titled from the header.
// Members before the first header stay at the chapter level only.
func splitSubchapters(d *types.Deck, members []int) []types.Subchapter {
	var subs []types.Subchapter
	var current *types.Subchapter

	for _, num := range members {
		slide := d.Slides[num-1]
		if isSectionHeader(slide) {
			if current != nil {
				subs = append(subs, *current)
			}
			current = &types.Subchapter{
				Title:       sectionTitle(slide),
				AnchorSlide: num,
				Slides:      []int{num},
			}
			continue
		}
		if current != nil {
			current.Slides = append(current.Slides, num)
		}
	}
	if current != nil {
		subs = append(subs, *current)
	}
	return subs
}

// isSectionHeader reports whether a slide looks like a section divider:
// at most three text items, no bullet markers, at most fifteen words,
// and either a primary-heading flag or fewer than ten words.
func isSectionHeader(s types.Slide) bool {
	if len(s.Texts) == 0 || len(s.Texts) > 3 {
		return false
	}
	text := s.Text()
	if hasBullets(text) {
		return false
	}
	words := len(strings.Fields(text))
	if words > 15 {
		return false
	}
	for _, t := range s.Texts {
		if t.Heading {
			return true
		}
	}
	return words < 10
}

// sectionTitle picks the subchapter title: the primary-heading text if
// marked, otherwise the first non-empty text item.
func sectionTitle(s types.Slide) string {
	for _, t := range s.Texts {
		if t.Heading && strings.TrimSpace(t.Text) != "" {
			return strings.TrimSpace(t.Text)
		}
	}
	for _, t := range s.Texts {
		if strings.TrimSpace(t.Text) != "" {
			return strings.TrimSpace(t.Text)
		}
	}
	return fmt.Sprintf("Section %d", s.Number)
}

// bulletPatterns match leading bullet or enumeration markers on a line.
var bulletPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*[•·▪▸→-]\s+`),
	regexp.MustCompile(`^\s*\d+\.\s+`),
	regexp.MustCompile(`^\s*[a-zA-Z]\.\s+`),
	regexp.MustCompile(`^\s*\([a-zA-Z0-9]\)\s+`),
}

// hasBullets reports whether at least two lines carry bullet markers.
func hasBullets(text string) bool {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		for _, re := range bulletPatterns {
			if re.MatchString(line) {
				count++
				break
			}
		}
	}
	return count >= 2
}

// typeIn reports whether t is in set.
func typeIn(t types.SlideType, set []types.SlideType) bool {
	for _, s := range set {
		if s == t {
			return true
		}
	}
	return false
}
