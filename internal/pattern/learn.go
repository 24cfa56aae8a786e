// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pattern

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/storyboard-engine/internal/classify"
	"github.com/pdiddy/storyboard-engine/internal/deck"
	"github.com/pdiddy/storyboard-engine/internal/storydoc"
	"github.com/pdiddy/storyboard-engine/pkg/types"
)

const (
	inputDir  = "input"
	outputDir = "output"

	// defaultSimilarityThreshold is the minimum Jaccard word similarity
	// for a slide to count as a segment's source.
	defaultSimilarityThreshold = 0.3

	// majorityFraction is how often a type must be omitted or combined
	// across examples before it enters the learned pattern set.
	majorityFraction = 0.5
)

// BatchSummary holds counts from one learning run.
type BatchSummary struct {
	Analyzed int
	Skipped  int
	Failed   int
}

// Total returns the number of example pairs considered.
func (s BatchSummary) Total() int {
	return s.Analyzed + s.Skipped + s.Failed
}

// HasFailures reports whether any pairs failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// pairAnalysis is the per-pair evidence the aggregator consumes.
type pairAnalysis struct {
	Name          string
	OmittedTypes  map[types.SlideType]int
	CombinedTypes map[types.SlideType]int

	// CombinedShapes counts each observed combination shape, keyed by
	// the sorted member types joined with "+" (e.g. "content+content").
	CombinedShapes  map[string]int
	ChapterSequence []string
	MatchedSlides   int
	MatchedSegments int
	SlideCount      int
	SegmentCount    int
}

// segmentMatch pairs a slide with its similarity to a segment.
type segmentMatch struct {
	Slide      int
	Similarity float64
}

// LearnAll walks ExamplesDir pairing input decks with output storyboards
// by file stem, analyzes each pair, and aggregates the evidence into a
// pattern set. Pairs that fail to parse are reported on w and skipped;
// inputs with no output counterpart are skipped. Zero analyzed pairs is
// an error since the aggregate would be meaningless.
func LearnAll(cfg types.LearnerConfig, w io.Writer) (types.PatternSet, BatchSummary, error) {
	classifier, err := classify.New(classify.Catalog)
	if err != nil {
		return types.PatternSet{}, BatchSummary{}, fmt.Errorf("building classifier: %w", err)
	}

	threshold := cfg.SimilarityThreshold
	if threshold <= 0 {
		threshold = defaultSimilarityThreshold
	}

	pairs, err := findPairs(cfg.ExamplesDir)
	if err != nil {
		return types.PatternSet{}, BatchSummary{}, err
	}

	var summary BatchSummary
	var analyses []pairAnalysis
	report := Report{Threshold: threshold}

	for _, p := range pairs {
		if p.Output == "" {
			fmt.Fprintf(w, "skipped %s: no output counterpart\n", p.Name)
			summary.Skipped++
			continue
		}

		fmt.Fprintf(w, "analyzing %s\n", p.Name)

		analysis, err := analyzePair(classifier, p, threshold)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", p.Name, err)
			summary.Failed++
			continue
		}
		analyses = append(analyses, analysis)
		report.Pairs = append(report.Pairs, pairReport(analysis))
		summary.Analyzed++
	}

	if summary.Analyzed == 0 {
		return types.PatternSet{}, summary, fmt.Errorf("no example pairs analyzed in %s", cfg.ExamplesDir)
	}

	ps := aggregate(analyses)

	if cfg.PatternsFile != "" {
		if err := Save(ps, cfg.PatternsFile); err != nil {
			return ps, summary, err
		}
		fmt.Fprintf(w, "wrote %s\n", cfg.PatternsFile)
	}
	if cfg.ReportFile != "" {
		if err := report.Save(cfg.ReportFile); err != nil {
			return ps, summary, err
		}
		fmt.Fprintf(w, "wrote %s\n", cfg.ReportFile)
	}
	return ps, summary, nil
}

// pair is one input deck with its output storyboard, matched by stem.
type pair struct {
	Name   string
	Input  string
	Output string
}

var deckExts = []string{".yaml", ".yml", ".json"}
var docExts = []string{".docx", ".yaml", ".yml", ".json"}

// findPairs matches ExamplesDir/input/ decks to ExamplesDir/output/
// documents sharing the same relative path stem. Results are sorted by
// name so runs are deterministic.
func findPairs(examplesDir string) ([]pair, error) {
	inRoot := filepath.Join(examplesDir, inputDir)
	outRoot := filepath.Join(examplesDir, outputDir)

	var pairs []pair
	err := filepath.WalkDir(inRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !extIn(filepath.Ext(path), deckExts) {
			return nil
		}
		rel, err := filepath.Rel(inRoot, path)
		if err != nil {
			return err
		}
		stem := strings.TrimSuffix(rel, filepath.Ext(rel))
		p := pair{Name: stem, Input: path}
		for _, ext := range docExts {
			candidate := filepath.Join(outRoot, stem+ext)
			if _, err := os.Stat(candidate); err == nil {
				p.Output = candidate
				break
			}
		}
		pairs = append(pairs, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning examples directory %s: %w", inRoot, err)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })
	return pairs, nil
}

func extIn(ext string, exts []string) bool {
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// analyzePair classifies the input deck, extracts the output structure,
// and aligns segments to slides by word similarity.
func analyzePair(classifier *classify.Classifier, p pair, threshold float64) (pairAnalysis, error) {
	d, err := deck.Load(p.Input)
	if err != nil {
		return pairAnalysis{}, err
	}
	doc, err := storydoc.Load(p.Output)
	if err != nil {
		return pairAnalysis{}, err
	}

	slideTypes := classifier.ClassifyDeck(d)
	structure := storydoc.Extract(doc)

	analysis := pairAnalysis{
		Name:           p.Name,
		OmittedTypes:   make(map[types.SlideType]int),
		CombinedTypes:  make(map[types.SlideType]int),
		CombinedShapes: make(map[string]int),
		SlideCount:     len(d.Slides),
		SegmentCount:   len(structure.Segments),
	}
	for _, ch := range structure.Chapters {
		analysis.ChapterSequence = append(analysis.ChapterSequence, ch.Title)
	}

	matched := make(map[int]bool)
	for _, seg := range structure.Segments {
		matches := matchSegment(seg.Text, d, threshold)
		if len(matches) == 0 {
			continue
		}
		analysis.MatchedSegments++
		analysis.MatchedSlides += len(matches)
		for _, m := range matches {
			matched[m.Slide] = true
		}
		if len(matches) > 1 {
			members := make([]string, 0, len(matches))
			for _, m := range matches {
				analysis.CombinedTypes[slideTypes[m.Slide]]++
				members = append(members, string(slideTypes[m.Slide]))
			}
			sort.Strings(members)
			analysis.CombinedShapes[strings.Join(members, "+")]++
		}
	}

	for _, slide := range d.Slides {
		if !matched[slide.Number] {
			analysis.OmittedTypes[slideTypes[slide.Number]]++
		}
	}
	return analysis, nil
}

// matchSegment returns the slides whose word similarity to the segment
// text clears the threshold, sorted by descending similarity. Equal
// similarities keep slide order, so results are stable.
func matchSegment(text string, d *types.Deck, threshold float64) []segmentMatch {
	segWords := wordSet(text)
	if len(segWords) == 0 {
		return nil
	}

	var matches []segmentMatch
	for _, slide := range d.Slides {
		sim := jaccard(segWords, wordSet(slide.Text()))
		if sim > threshold {
			matches = append(matches, segmentMatch{Slide: slide.Number, Similarity: sim})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}

// wordSet tokenizes on whitespace and lower-cases.
func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = true
	}
	return set
}

// jaccard computes intersection over union of two word sets.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// aggregate folds per-pair evidence into one pattern set. Types omitted
// or combined in a majority of examples enter the learned lists; the
// most frequent chapter sequence wins, earliest observed on ties.
func aggregate(analyses []pairAnalysis) types.PatternSet {
	ps := Default()
	total := len(analyses)
	if total == 0 {
		return ps
	}

	omitExamples := make(map[types.SlideType]int)
	combineExamples := make(map[types.SlideType]int)
	seqCounts := make(map[string]int)
	seqOrder := make(map[string]int)
	var sequences []string

	matchedSlides, matchedSegments := 0, 0

	for i, a := range analyses {
		for t := range a.OmittedTypes {
			omitExamples[t]++
		}
		for t := range a.CombinedTypes {
			combineExamples[t]++
		}
		if len(a.ChapterSequence) > 0 {
			key := strings.Join(a.ChapterSequence, "|")
			if _, seen := seqCounts[key]; !seen {
				seqOrder[key] = i
				sequences = append(sequences, key)
			}
			seqCounts[key]++
		}
		matchedSlides += a.MatchedSlides
		matchedSegments += a.MatchedSegments
	}

	need := int(float64(total)*majorityFraction + 0.5)
	if need < 1 {
		need = 1
	}
	if omit := majorityTypes(omitExamples, need); len(omit) > 0 {
		ps.OmitTypes = omit
	}
	if combine := majorityTypes(combineExamples, need); len(combine) > 0 {
		ps.CombineTypes = combine
	}

	if best := bestSequence(sequences, seqCounts, seqOrder); len(best) > 0 {
		ps.ChapterSequence = best
	}

	if matchedSegments > 0 {
		ps.AvgSlidesPerSegment = float64(matchedSlides) / float64(matchedSegments)
	}
	return ps
}

// majorityTypes returns the types reaching the example-count bar, sorted
// for deterministic output.
func majorityTypes(counts map[types.SlideType]int, need int) []types.SlideType {
	var out []types.SlideType
	for t, n := range counts {
		if n >= need {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func bestSequence(sequences []string, counts, order map[string]int) []string {
	bestKey := ""
	bestCount := 0
	for _, key := range sequences {
		n := counts[key]
		if n > bestCount || (n == bestCount && bestKey != "" && order[key] < order[bestKey]) {
			bestKey = key
			bestCount = n
		}
	}
	if bestKey == "" {
		return nil
	}
	return strings.Split(bestKey, "|")
}
