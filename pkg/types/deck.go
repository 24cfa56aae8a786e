// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model for the storyboard pipeline:
// extracted decks, slide classifications, chapter outlines, abbreviation
// entries, learned pattern sets, and per-stage configuration.
// See docs/ARCHITECTURE § Data Model.
package types

import "strings"

// SlideType is the semantic category assigned to a slide by the classifier.
// Assignments are derived, not inherent: re-tuning the catalog may change them.
type SlideType string

const (
	SlideTitle       SlideType = "title"
	SlideDisclosure  SlideType = "disclosure"
	SlideObjectives  SlideType = "objectives"
	SlidePatientCase SlideType = "patient_case"
	SlideClinical    SlideType = "clinical_data"
	SlideTreatment   SlideType = "treatment"
	SlideConclusion  SlideType = "conclusion"
	SlideReferences  SlideType = "references"
	SlideQuestions   SlideType = "questions"
	// SlideContent is the default when no category scores above zero.
	SlideContent SlideType = "content"
)

// TextItem is one text run extracted from a slide shape.
type TextItem struct {
	// Text is the raw text as extracted.
	Text string `json:"text" yaml:"text"`

	// Heading marks the slide's primary heading placeholder.
	Heading bool `json:"heading,omitempty" yaml:"heading,omitempty"`
}

// Slide is one slide of an extracted deck. Slides are immutable inputs:
// the pipeline never rewrites their content.
type Slide struct {
	// Number is the 1-based slide number.
	Number int `json:"number" yaml:"number"`

	// Texts are the slide's text items in shape order.
	Texts []TextItem `json:"texts" yaml:"texts"`

	// MediaCount is the number of embedded media shapes (images, charts).
	MediaCount int `json:"media_count,omitempty" yaml:"media_count,omitempty"`
}

// Text returns the slide's text items joined with single spaces.
func (s Slide) Text() string {
	parts := make([]string, 0, len(s.Texts))
	for _, t := range s.Texts {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}

// WordCount returns the number of whitespace-separated words on the slide.
func (s Slide) WordCount() int {
	return len(strings.Fields(s.Text()))
}

// Deck is the ordered slide collection produced by the extraction
// collaborator. Slide numbers are 1-based and contiguous; internal/deck
// validates this on load.
type Deck struct {
	// Source names the presentation the deck was extracted from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Slides in presentation order.
	Slides []Slide `json:"slides" yaml:"slides"`
}
