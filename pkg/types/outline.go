// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Subchapter is a nested section inside a chapter. It is owned exclusively
// by its parent chapter.
type Subchapter struct {
	Title string `json:"title" yaml:"title"`

	// AnchorSlide is the first member slide.
	AnchorSlide int `json:"anchor_slide" yaml:"anchor_slide"`

	// Slides are the member slide numbers in ascending order.
	Slides []int `json:"slides" yaml:"slides"`
}

// Chapter is one entry of the synthesized outline. Member slide numbers
// include those of its subchapters.
type Chapter struct {
	Title string `json:"title" yaml:"title"`

	// AnchorSlide is the first member slide.
	AnchorSlide int `json:"anchor_slide" yaml:"anchor_slide"`

	// Slides are the member slide numbers in ascending order.
	Slides []int `json:"slides" yaml:"slides"`

	Subchapters []Subchapter `json:"subchapters,omitempty" yaml:"subchapters,omitempty"`
}

// Storyboard is the direct-path output handed to the rendering
// collaborator: the chapter outline plus the resolved collections.
type Storyboard struct {
	Title    string    `json:"title,omitempty" yaml:"title,omitempty"`
	Chapters []Chapter `json:"chapters" yaml:"chapters"`

	// Abbreviations maps normalized tokens to their resolved entries.
	Abbreviations map[string]AbbreviationEntry `json:"abbreviations,omitempty" yaml:"abbreviations,omitempty"`

	Objectives []string `json:"objectives,omitempty" yaml:"objectives,omitempty"`

	// References maps slide numbers to the citation strings found on them.
	References map[int][]string `json:"references,omitempty" yaml:"references,omitempty"`

	// Warnings lists non-fatal findings, e.g. unresolved abbreviations.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}
