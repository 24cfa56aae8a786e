// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"testing"

	"github.com/pdiddy/storyboard-engine/pkg/types"
)

func slide(number int, texts ...string) types.Slide {
	s := types.Slide{Number: number}
	for _, t := range texts {
		s.Texts = append(s.Texts, types.TextItem{Text: t})
	}
	return s
}

func headingSlide(number int, heading string, texts ...string) types.Slide {
	s := types.Slide{Number: number}
	s.Texts = append(s.Texts, types.TextItem{Text: heading, Heading: true})
	for _, t := range texts {
		s.Texts = append(s.Texts, types.TextItem{Text: t})
	}
	return s
}

func TestSynthesizeCoversEverySlide(t *testing.T) {
	d := &types.Deck{Slides: []types.Slide{
		slide(1, "Title"), slide(2, "Disclosures"), slide(3, "Case"),
		slide(4, "Data"), slide(5, "Treatment"), slide(6, "Content"),
		slide(7, "Conclusion"), slide(8, "References"),
	}}
	slideTypes := map[int]types.SlideType{
		1: types.SlideTitle,
		2: types.SlideDisclosure,
		3: types.SlidePatientCase,
		4: types.SlideClinical,
		5: types.SlideTreatment,
		6: types.SlideContent,
		7: types.SlideConclusion,
		8: types.SlideReferences,
	}

	chapters := Synthesize(d, slideTypes)

	seen := make(map[int]int)
	for _, ch := range chapters {
		for _, num := range ch.Slides {
			seen[num]++
		}
	}
	for num := 1; num <= 8; num++ {
		if seen[num] != 1 {
			t.Errorf("slide %d appears %d times, want exactly 1", num, seen[num])
		}
	}

	wantOrder := []string{
		"Introduction", "Patient Case", "Clinical Data & Evidence",
		"Treatment & Management", "Main Content", "Conclusions", "References",
	}
	if len(chapters) != len(wantOrder) {
		t.Fatalf("got %d chapters, want %d", len(chapters), len(wantOrder))
	}
	for i, want := range wantOrder {
		if chapters[i].Title != want {
			t.Errorf("chapter %d = %q, want %q", i, chapters[i].Title, want)
		}
	}
	if chapters[0].AnchorSlide != 1 {
		t.Errorf("Introduction anchor = %d, want 1", chapters[0].AnchorSlide)
	}
}

func TestSynthesizeMainContentAbsorbsLeftovers(t *testing.T) {
	// No slide classifies as content; Main Content would be empty and
	// instead claims everything unclaimed by earlier template entries.
	d := &types.Deck{Slides: []types.Slide{
		slide(1, "A"), slide(2, "B"), slide(3, "C"),
	}}
	slideTypes := map[int]types.SlideType{
		1: types.SlideTitle,
		2: types.SlideQuestions,
		3: types.SlideQuestions,
	}

	chapters := Synthesize(d, slideTypes)

	var main *types.Chapter
	for i := range chapters {
		if chapters[i].Title == "Main Content" {
			main = &chapters[i]
		}
	}
	if main == nil {
		t.Fatal("Main Content chapter missing")
	}
	// Introduction claims slide 1; Main Content precedes Conclusions in
	// the template, so it absorbs the still-unclaimed questions slides.
	if len(main.Slides) != 2 || main.Slides[0] != 2 || main.Slides[1] != 3 {
		t.Errorf("Main Content slides = %v, want [2 3]", main.Slides)
	}
}

func TestSynthesizeEmptyDeck(t *testing.T) {
	chapters := Synthesize(&types.Deck{}, map[int]types.SlideType{})

	if len(chapters) != 1 {
		t.Fatalf("got %d chapters, want 1", len(chapters))
	}
	if chapters[0].Title != "All Slides" {
		t.Errorf("fallback chapter = %q, want All Slides", chapters[0].Title)
	}
	if chapters[0].AnchorSlide != 1 {
		t.Errorf("fallback anchor = %d, want 1", chapters[0].AnchorSlide)
	}
	if len(chapters[0].Slides) != 0 {
		t.Errorf("fallback slides = %v, want empty", chapters[0].Slides)
	}
}

func TestSynthesizeSubchapterSplit(t *testing.T) {
	// Six content slides with two section headers trigger the split.
	d := &types.Deck{Slides: []types.Slide{
		headingSlide(1, "Pathophysiology"),
		slide(2, "The glomerulus filters plasma across a basement membrane under pressure."),
		slide(3, "Filtration declines as nephrons are progressively lost over the years."),
		headingSlide(4, "Staging"),
		slide(5, "Stages are defined by the estimated glomerular filtration rate thresholds."),
		slide(6, "Albuminuria categories refine the prognosis at every single disease stage."),
	}}
	slideTypes := map[int]types.SlideType{
		1: types.SlideContent, 2: types.SlideContent, 3: types.SlideContent,
		4: types.SlideContent, 5: types.SlideContent, 6: types.SlideContent,
	}

	chapters := Synthesize(d, slideTypes)

	if len(chapters) != 1 || chapters[0].Title != "Main Content" {
		t.Fatalf("chapters = %+v, want single Main Content", chapters)
	}
	subs := chapters[0].Subchapters
	if len(subs) != 2 {
		t.Fatalf("got %d subchapters, want 2", len(subs))
	}
	if subs[0].Title != "Pathophysiology" || subs[1].Title != "Staging" {
		t.Errorf("subchapter titles = %q, %q", subs[0].Title, subs[1].Title)
	}
	if got := subs[0].Slides; len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("first subchapter slides = %v, want [1 2 3]", got)
	}
	if subs[1].AnchorSlide != 4 {
		t.Errorf("second subchapter anchor = %d, want 4", subs[1].AnchorSlide)
	}
}

func TestIsSectionHeader(t *testing.T) {
	tests := []struct {
		name  string
		slide types.Slide
		want  bool
	}{
		{name: "marked heading", slide: headingSlide(1, "Overview of Current Treatment Landscape Options"), want: true},
		{name: "short unmarked text", slide: slide(1, "Current Landscape"), want: true},
		{
			name:  "bulleted slide",
			slide: slide(1, "• first point\n• second point"),
			want:  false,
		},
		{
			name:  "long prose",
			slide: slide(1, "This slide carries a full paragraph of sixteen or more words and is clearly not a divider at all."),
			want:  false,
		},
		{name: "no text", slide: slide(1), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSectionHeader(tt.slide); got != tt.want {
				t.Errorf("isSectionHeader() = %v, want %v", got, tt.want)
			}
		})
	}
}
