// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PatternSet holds the transformation rules learned from example
// input/output pairs. It is written once by the learner and read-only
// to the transformer; the serialized file is the only coupling between
// the two phases.
type PatternSet struct {
	// OmitTypes are slide types commonly dropped during transformation.
	OmitTypes []SlideType `json:"omit_types" yaml:"omit_types"`

	// CombineTypes are slide types commonly merged into one segment.
	CombineTypes []SlideType `json:"combine_types" yaml:"combine_types"`

	// AvgSlidesPerSegment caps how many slides join one segment group.
	AvgSlidesPerSegment float64 `json:"avg_slides_per_segment" yaml:"avg_slides_per_segment"`

	// ChapterSequence is the template chapter-name order for the output.
	ChapterSequence []string `json:"chapter_sequence" yaml:"chapter_sequence"`

	// BulletThreshold is the minimum count of short, non-sentence lines
	// in a segment before its content renders as a bullet list.
	BulletThreshold int `json:"bullet_threshold" yaml:"bullet_threshold"`

	// SplitThreshold is the cumulative word count at which an open
	// segment group is closed.
	SplitThreshold int `json:"split_threshold" yaml:"split_threshold"`
}

// Omission records one slide dropped by the transformer and why.
type Omission struct {
	Slide  int       `json:"slide" yaml:"slide"`
	Type   SlideType `json:"type" yaml:"type"`
	Reason string    `json:"reason" yaml:"reason"`
}

// QuestionScaffold is a placeholder assessment question inserted into
// assessment chapters.
type QuestionScaffold struct {
	Question string   `json:"question" yaml:"question"`
	Answers  []string `json:"answers" yaml:"answers"`
	Correct  int      `json:"correct" yaml:"correct"`
	Feedback string   `json:"feedback" yaml:"feedback"`
	Solution string   `json:"solution" yaml:"solution"`
}

// Segment is one unit of destination content produced by the transformer,
// sourced from one or more slides or synthesized as a placeholder.
type Segment struct {
	Chapter    string `json:"chapter" yaml:"chapter"`
	Subchapter string `json:"subchapter,omitempty" yaml:"subchapter,omitempty"`
	Content    string `json:"content,omitempty" yaml:"content,omitempty"`

	// SourceSlides are the slide numbers the content came from; empty
	// for placeholders and question scaffolds.
	SourceSlides []int `json:"source_slides,omitempty" yaml:"source_slides,omitempty"`

	// MediaCount totals the media shapes of the source slides.
	MediaCount int `json:"media_count,omitempty" yaml:"media_count,omitempty"`

	Placeholder bool              `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Question    *QuestionScaffold `json:"question,omitempty" yaml:"question,omitempty"`
}

// SegmentChapter groups the transformer's segments under one template
// chapter name.
type SegmentChapter struct {
	Title    string    `json:"title" yaml:"title"`
	Segments []Segment `json:"segments" yaml:"segments"`
}

// TransformResult is the pattern-based transformer's output: the target
// chapter structure plus the record of dropped slides. The union of all
// segments' source slides and the omission list covers the input deck.
type TransformResult struct {
	Chapters []SegmentChapter `json:"chapters" yaml:"chapters"`
	Omitted  []Omission       `json:"omitted,omitempty" yaml:"omitted,omitempty"`
}
