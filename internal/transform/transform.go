// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transform applies a learned pattern set to a classified deck:
// it drops commonly-omitted slide types, groups the survivors into
// segment-sized runs, and maps the runs onto the learned chapter
// sequence. Every input slide ends up either in a segment's source list
// or in the omission record, never silently dropped.
// See docs/ARCHITECTURE § Pattern Transformer.
package transform

import (
	"strings"
	"unicode"

	"github.com/pdiddy/storyboard-engine/pkg/types"
)

const (
	omitReason = "Pattern: commonly omitted"

	// objectivesNote points the reader at the objectives list rendered
	// earlier in the document; objectives chapters never take slides.
	objectivesNote = "See objectives section above"

	// mainContentReserve is how many groups Main Content leaves for the
	// chapters after it.
	mainContentReserve = 2

	// shortLineMax is the length under which a line without terminal
	// punctuation counts toward the bullet threshold.
	shortLineMax = 100
)

// alwaysSeparate are the types that never share a segment group with
// other slides.
var alwaysSeparate = []types.SlideType{
	types.SlideObjectives,
	types.SlideConclusion,
	types.SlideQuestions,
}

// slideGroup is a run of slides destined for one segment.
type slideGroup struct {
	Slides []types.Slide
	Words  int
}

func (g *slideGroup) add(s types.Slide) {
	g.Slides = append(g.Slides, s)
	g.Words += s.WordCount()
}

// Apply transforms a classified deck with the given pattern set. The
// returned chapters follow ps.ChapterSequence; groups that no template
// chapter claimed are appended to the main content chapter so the
// segment source lists and the omission list together cover the deck.
func Apply(d *types.Deck, slideTypes map[int]types.SlideType, ps types.PatternSet) types.TransformResult {
	var result types.TransformResult

	// Pass 1: omissions.
	var kept []types.Slide
	for _, slide := range d.Slides {
		t := slideTypes[slide.Number]
		if typeIn(t, ps.OmitTypes) {
			result.Omitted = append(result.Omitted, types.Omission{
				Slide:  slide.Number,
				Type:   t,
				Reason: omitReason,
			})
			continue
		}
		kept = append(kept, slide)
	}

	// Pass 2: grouping.
	groups := groupSlides(kept, slideTypes, ps)

	// Pass 3: template walk.
	used := 0
	mainIdx := -1
	for _, name := range ps.ChapterSequence {
		chapter := types.SegmentChapter{Title: name}
		lower := strings.ToLower(name)

		switch {
		case strings.Contains(lower, "assessment") || strings.Contains(lower, "question"):
			for _, q := range questionScaffolds() {
				sc := q
				chapter.Segments = append(chapter.Segments, types.Segment{
					Chapter:  name,
					Question: &sc,
				})
			}

		case strings.Contains(lower, "objective"):
			chapter.Segments = append(chapter.Segments, types.Segment{
				Chapter:     name,
				Content:     objectivesNote,
				Placeholder: true,
			})

		case strings.Contains(lower, "welcome") || strings.Contains(lower, "expert"):
			chapter.Segments = append(chapter.Segments, placeholderSegment(name))

		case strings.Contains(lower, "main content"):
			take := len(groups) - used - mainContentReserve
			if take < 1 {
				take = 1
			}
			for i := 0; i < take && used < len(groups); i++ {
				chapter.Segments = append(chapter.Segments, groupSegment(name, groups[used], ps))
				used++
			}
			if len(chapter.Segments) == 0 {
				chapter.Segments = append(chapter.Segments, placeholderSegment(name))
			}

		default:
			if used < len(groups) {
				chapter.Segments = append(chapter.Segments, groupSegment(name, groups[used], ps))
				used++
			} else {
				chapter.Segments = append(chapter.Segments, placeholderSegment(name))
			}
		}

		if strings.Contains(lower, "main content") {
			mainIdx = len(result.Chapters)
		}
		result.Chapters = append(result.Chapters, chapter)
	}

	// Leftover groups still belong somewhere. Fold them into the main
	// content chapter, or the last chapter when the sequence has none.
	if used < len(groups) && len(result.Chapters) > 0 {
		target := mainIdx
		if target < 0 {
			target = len(result.Chapters) - 1
		}
		ch := &result.Chapters[target]
		for ; used < len(groups); used++ {
			ch.Segments = append(ch.Segments, groupSegment(ch.Title, groups[used], ps))
		}
	}

	return result
}

// groupSlides splits the kept slides into segment groups. A group closes
// when an always-separate type arrives, when it reaches the learned
// average size, or when its word count passes the split threshold.
func groupSlides(slides []types.Slide, slideTypes map[int]types.SlideType, ps types.PatternSet) []slideGroup {
	var groups []slideGroup
	var open *slideGroup

	flush := func() {
		if open != nil && len(open.Slides) > 0 {
			groups = append(groups, *open)
		}
		open = nil
	}

	for _, slide := range slides {
		t := slideTypes[slide.Number]

		if typeIn(t, alwaysSeparate) {
			flush()
			solo := &slideGroup{}
			solo.add(slide)
			groups = append(groups, *solo)
			continue
		}

		if open != nil {
			if float64(len(open.Slides)) >= ps.AvgSlidesPerSegment || open.Words > ps.SplitThreshold {
				flush()
			}
		}
		if open == nil {
			open = &slideGroup{}
		}
		open.add(slide)
	}
	flush()
	return groups
}

// groupSegment renders one group as a content segment.
func groupSegment(chapter string, g slideGroup, ps types.PatternSet) types.Segment {
	var texts []string
	var sources []int
	media := 0
	for _, s := range g.Slides {
		for _, item := range s.Texts {
			if t := strings.TrimSpace(item.Text); t != "" {
				texts = append(texts, t)
			}
		}
		sources = append(sources, s.Number)
		media += s.MediaCount
	}
	return types.Segment{
		Chapter:      chapter,
		Content:      formatContent(texts, ps.BulletThreshold),
		SourceSlides: sources,
		MediaCount:   media,
	}
}

func placeholderSegment(chapter string) types.Segment {
	return types.Segment{
		Chapter:     chapter,
		Content:     "[Content to be provided]",
		Placeholder: true,
	}
}

// questionScaffolds returns the fixed assessment scaffold: three
// multiple-choice questions with four answer slots each, to be filled
// in by the author.
func questionScaffolds() []types.QuestionScaffold {
	out := make([]types.QuestionScaffold, 0, 3)
	for i := 0; i < 3; i++ {
		out = append(out, types.QuestionScaffold{
			Question: "[Question text to be provided]",
			Answers: []string{
				"[Answer A]",
				"[Answer B]",
				"[Answer C]",
				"[Answer D]",
			},
			Correct:  0,
			Feedback: "[Feedback to be provided]",
			Solution: "[Solution rationale to be provided]",
		})
	}
	return out
}

// formatContent renders the collected slide texts. When enough lines are
// short and lack terminal punctuation the content reads as a list and is
// rendered with bullets; otherwise the texts join as paragraphs.
func formatContent(texts []string, bulletThreshold int) string {
	if len(texts) == 0 {
		return ""
	}

	short := 0
	for _, t := range texts {
		if len(t) < shortLineMax && !strings.HasSuffix(t, ".") {
			short++
		}
	}

	if bulletThreshold > 0 && short >= bulletThreshold {
		var b strings.Builder
		for i, t := range texts {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("• ")
			b.WriteString(capitalize(t))
		}
		return b.String()
	}
	return strings.Join(texts, "\n\n")
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func typeIn(t types.SlideType, set []types.SlideType) bool {
	for _, s := range set {
		if s == t {
			return true
		}
	}
	return false
}
