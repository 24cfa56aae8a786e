// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"regexp"
	"strings"

	"github.com/pdiddy/storyboard-engine/pkg/types"
)

// objectivePatterns detect objectives slides. They mirror the
// classifier's objectives category so both stages agree on what an
// objectives slide is.
var objectivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`learning\s+objectives?`),
	regexp.MustCompile(`objectives?\s+(?:of|for)?\s+this`),
	regexp.MustCompile(`(?:by|at)\s+the\s+end\s+of\s+this`),
	regexp.MustCompile(`participants?\s+will\s+(?:be\s+able\s+to|learn)`),
	regexp.MustCompile(`goals?\s+(?:of|for)?\s+this`),
}

// bulletPrefix strips leading bullet markers, numbering, and whitespace
// from an objective line.
var bulletPrefix = regexp.MustCompile(`^[\s•·▪▸→\-\*\d\.]+`)

// ExtractObjectives collects learning objectives from objectives slides:
// every non-heading text item of at least four words, with bullet
// markers stripped.
func ExtractObjectives(d *types.Deck) []string {
	var objectives []string
	for _, slide := range d.Slides {
		lower := strings.ToLower(slide.Text())
		matched := false
		for _, re := range objectivePatterns {
			if re.MatchString(lower) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		for _, item := range slide.Texts {
			if item.Heading {
				continue
			}
			text := strings.TrimSpace(bulletPrefix.ReplaceAllString(item.Text, ""))
			if text != "" && len(strings.Fields(text)) > 3 {
				objectives = append(objectives, text)
			}
		}
	}
	return objectives
}

// GenerateObjectives synthesizes objectives from content topics when the
// deck has no objectives slide. The result is deliberately generic; it
// exists so downstream templates always have something to render.
func GenerateObjectives(d *types.Deck, slideTypes map[int]types.SlideType) []string {
	topics := make(map[string]bool)
	for _, slide := range d.Slides {
		switch slideTypes[slide.Number] {
		case types.SlideClinical, types.SlideTreatment, types.SlidePatientCase:
		default:
			continue
		}
		lower := strings.ToLower(slide.Text())
		if strings.Contains(lower, "treatment") {
			topics["treatment"] = true
		}
		if strings.Contains(lower, "clinical") {
			topics["clinical"] = true
		}
		if strings.Contains(lower, "patient") {
			topics["patient"] = true
		}
	}

	var objectives []string
	if topics["treatment"] {
		objectives = append(objectives, "Understand the treatment options and their clinical applications")
	}
	if topics["clinical"] {
		objectives = append(objectives, "Review the clinical evidence and study outcomes")
	}
	if topics["patient"] {
		objectives = append(objectives, "Apply patient management strategies in clinical practice")
	}
	if len(objectives) == 0 {
		objectives = []string{
			"Understand the key concepts presented in this module",
			"Apply the learning to clinical practice",
			"Evaluate treatment options based on evidence",
		}
	}
	return objectives
}

// citationPatterns is the citation vocabulary for reference extraction:
// URLs, DOIs, PubMed and trial identifiers, author-year citations, and
// guideline-body mentions.
var citationPatterns = []string{
	`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`,
	`www\.[^\s<>"{}|\\^` + "`" + `\[\]]+`,
	`(?:doi:\s*|https?://doi\.org/)\S+`,
	`10\.\d{4,}/\S+`,
	`PMID:\s*\d+`,
	`PMC\d+`,
	`[A-Z][a-zA-Z\-]+\s+et\s+al\.?,?\s+[A-Z][a-zA-Z\s]+\.?\s+\d{4}`,
	`[A-Z][a-zA-Z\-]+\s+et\s+al\.?,?\s+\d{4}`,
	`(?:NEJM|JAMA|BMJ|Lancet|JACC|JCO|Blood|Nature|Science|Cell)\s+\d{4}`,
	`NCT\d{8}`,
	`ISRCTN\d{8}`,
	`(?:AHA|ACC|ESC|NCCN|ASCO|FDA|EMA)\s+(?:guidelines?|guidance|recommendation)`,
}

var citationRegexp = regexp.MustCompile(`(?i)` + strings.Join(citationPatterns, "|"))

// ExtractReferences scans every slide for citation-shaped substrings and
// returns them keyed by slide number. Slides without citations are absent
// from the map.
func ExtractReferences(d *types.Deck) map[int][]string {
	refs := make(map[int][]string)
	for _, slide := range d.Slides {
		var found []string
		for _, item := range slide.Texts {
			for _, m := range citationRegexp.FindAllString(item.Text, -1) {
				if ref := strings.TrimSpace(m); ref != "" {
					found = append(found, ref)
				}
			}
		}
		if len(found) > 0 {
			refs[slide.Number] = found
		}
	}
	return refs
}
