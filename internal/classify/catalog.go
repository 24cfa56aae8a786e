// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import "github.com/pdiddy/storyboard-engine/pkg/types"

// Category is one entry of the classification catalog: the body patterns,
// keyword substrings, and tie-break priority for a slide type. The
// catalog is plain data so alternative catalogs can be substituted in
// tests without code changes.
type Category struct {
	Type types.SlideType

	// Patterns are regular expressions matched against the lower-cased
	// concatenation of the slide's text items; each match scores +10.
	Patterns []string

	// Keywords are plain substrings; each hit scores +5.
	Keywords []string

	// Priority breaks score ties: lower wins. Catalog order breaks
	// priority ties.
	Priority int

	// MaxWords bounds the positional bonus for the title category.
	MaxWords int
}

// Catalog is the default category set for clinical training decks.
var Catalog = []Category{
	{
		Type: types.SlideTitle,
		Patterns: []string{
			`^\s*$`,
			`^[^.!?]{1,100}$`,
		},
		Priority: 1,
		MaxWords: 20,
	},
	{
		Type: types.SlideDisclosure,
		Patterns: []string{
			`disclos`,
			`conflict\s+of\s+interest`,
			`financial\s+relationship`,
			`consulting\s+fee`,
			`speaker\s+bureau`,
			`advisory\s+board`,
		},
		Keywords: []string{"disclosure", "conflict", "financial", "consulting"},
		Priority: 2,
	},
	{
		Type: types.SlideObjectives,
		Patterns: []string{
			`learning\s+objectives?`,
			`objectives?\s+(?:of|for)?\s+this`,
			`(?:by|at)\s+the\s+end\s+of\s+this`,
			`participants?\s+will\s+(?:be\s+able\s+to|learn)`,
			`goals?\s+(?:of|for)?\s+this`,
		},
		Keywords: []string{"objective", "goal", "learn", "understand"},
		Priority: 3,
	},
	{
		Type: types.SlidePatientCase,
		Patterns: []string{
			`patient\s+(?:case|presentation)`,
			`case\s+(?:study|presentation|report)`,
			`\d+[-\s]?year[-\s]?old\s+(?:male|female|man|woman|patient)`,
			`(?:presenting|presented)\s+with`,
			`chief\s+complaint`,
			`history\s+of\s+present\s+illness`,
			`past\s+medical\s+history`,
			`medications?`,
			`allergies?`,
		},
		Keywords: []string{"patient", "case", "year-old", "presented", "history", "complaint"},
		Priority: 4,
	},
	{
		Type: types.SlideClinical,
		Patterns: []string{
			`(?:clinical|study)\s+(?:trial|data|results)`,
			`phase\s+[ivx123]`,
			`efficacy`,
			`safety`,
			`adverse\s+events?`,
			`statistical\s+analysis`,
			`p[\s-]?value`,
			`confidence\s+interval`,
			`hazard\s+ratio`,
			`endpoint`,
		},
		Keywords: []string{"trial", "study", "efficacy", "safety", "endpoint", "analysis"},
		Priority: 5,
	},
	{
		Type: types.SlideTreatment,
		Patterns: []string{
			`treatment\s+(?:options?|recommendations?|guidelines?)`,
			`management`,
			`therapy`,
			`dosing`,
			`administration`,
			`mechanism\s+of\s+action`,
			`pharmacokinetics?`,
			`drug\s+interaction`,
		},
		Keywords: []string{"treatment", "therapy", "management", "dosing", "drug"},
		Priority: 6,
	},
	{
		Type: types.SlideConclusion,
		Patterns: []string{
			`conclusions?`,
			`summary`,
			`key\s+(?:points?|takeaways?|messages?)`,
			`in\s+(?:conclusion|summary)`,
			`take[\s-]?home\s+messages?`,
		},
		Keywords: []string{"conclusion", "summary", "key points", "takeaway"},
		Priority: 7,
	},
	{
		Type: types.SlideReferences,
		Patterns: []string{
			`references?`,
			`bibliography`,
			`citations?`,
			`sources?`,
			`\d+\.\s+[a-z][a-z]+.*\d{4}`,
			`doi:\s*\S+`,
			`https?://\S+`,
		},
		Keywords: []string{"reference", "bibliography", "citation"},
		Priority: 8,
	},
	{
		Type: types.SlideQuestions,
		Patterns: []string{
			`questions?\??`,
			`q\s*&\s*a`,
			`discussion`,
			`thank\s+you`,
			`contact\s+(?:information|me|us)`,
		},
		Keywords: []string{"question", "thank you", "contact", "discussion"},
		Priority: 9,
	},
}
