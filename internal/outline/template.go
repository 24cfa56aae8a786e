// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import "github.com/pdiddy/storyboard-engine/pkg/types"

// ChapterDef is one entry of the logical chapter template: the name,
// the slide types it claims, and whether an empty instance is skipped.
type ChapterDef struct {
	Name     string
	Types    []types.SlideType
	Optional bool
}

// Chapter names referenced by special-case handling.
const (
	mainContentChapter = "Main Content"
	catchAllChapter    = "Additional Content"
	fallbackChapter    = "All Slides"
)

// Template is the fixed logical flow of a clinical training deck.
// Processing is single-pass and order matters: earlier entries claim
// slides first.
var Template = []ChapterDef{
	{Name: "Introduction", Types: []types.SlideType{types.SlideTitle, types.SlideDisclosure, types.SlideObjectives}},
	{Name: "Patient Case", Types: []types.SlideType{types.SlidePatientCase}, Optional: true},
	{Name: "Clinical Data & Evidence", Types: []types.SlideType{types.SlideClinical}, Optional: true},
	{Name: "Treatment & Management", Types: []types.SlideType{types.SlideTreatment}, Optional: true},
	{Name: mainContentChapter, Types: []types.SlideType{types.SlideContent}},
	{Name: "Conclusions", Types: []types.SlideType{types.SlideConclusion, types.SlideQuestions}, Optional: true},
	{Name: "References", Types: []types.SlideType{types.SlideReferences}, Optional: true},
}
