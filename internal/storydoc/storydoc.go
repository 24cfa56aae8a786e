// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package storydoc models already-rendered storyboard documents and
// extracts their structure for the pattern learner: chapter and
// subchapter headings identified by paragraph style, and abbreviation,
// segment, and question tables identified by column count and label
// vocabulary. It is the style/label-based counterpart of the rule-based
// deck extractor in internal/outline.
// See docs/ARCHITECTURE § Storyboard Documents.
package storydoc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/storyboard-engine/pkg/types"
)

// Styles that mark structure in rendered storyboards.
const (
	chapterStyle    = "Heading 1"
	subchapterStyle = "AX Subhead"
)

// BlockKind discriminates document blocks.
type BlockKind string

const (
	BlockHeading BlockKind = "heading"
	BlockTable   BlockKind = "table"
)

// Block is one body element of a rendered document: a styled heading
// paragraph or a table of cell text.
type Block struct {
	Kind  BlockKind  `json:"kind" yaml:"kind"`
	Text  string     `json:"text,omitempty" yaml:"text,omitempty"`
	Style string     `json:"style,omitempty" yaml:"style,omitempty"`
	Rows  [][]string `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// Document is the flat block sequence of a rendered storyboard.
type Document struct {
	Source string  `json:"source,omitempty" yaml:"source,omitempty"`
	Blocks []Block `json:"blocks" yaml:"blocks"`
}

// DocChapter is a chapter heading with its subchapter titles.
type DocChapter struct {
	Title       string   `json:"title" yaml:"title"`
	Subchapters []string `json:"subchapters,omitempty" yaml:"subchapters,omitempty"`
}

// Segment is one content segment table, decoded by its first-column labels.
type Segment struct {
	Chapter       string `json:"chapter,omitempty" yaml:"chapter,omitempty"`
	Subchapter    string `json:"subchapter,omitempty" yaml:"subchapter,omitempty"`
	Text          string `json:"text,omitempty" yaml:"text,omitempty"`
	Visuals       string `json:"visuals,omitempty" yaml:"visuals,omitempty"`
	Interactivity string `json:"interactivity,omitempty" yaml:"interactivity,omitempty"`
	References    string `json:"references,omitempty" yaml:"references,omitempty"`
	Notes         string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Question is one assessment question table.
type Question struct {
	Chapter    string `json:"chapter,omitempty" yaml:"chapter,omitempty"`
	Subchapter string `json:"subchapter,omitempty" yaml:"subchapter,omitempty"`
	Text       string `json:"text,omitempty" yaml:"text,omitempty"`
	Answers    string `json:"answers,omitempty" yaml:"answers,omitempty"`
	Feedback   string `json:"feedback,omitempty" yaml:"feedback,omitempty"`
	Solution   string `json:"solution,omitempty" yaml:"solution,omitempty"`
}

// Structure is everything the learner needs from one rendered document.
type Structure struct {
	Chapters      []DocChapter      `json:"chapters" yaml:"chapters"`
	Abbreviations map[string]string `json:"abbreviations,omitempty" yaml:"abbreviations,omitempty"`
	Segments      []Segment         `json:"segments" yaml:"segments"`
	Questions     []Question        `json:"questions,omitempty" yaml:"questions,omitempty"`
}

// segmentLabels is the label vocabulary for recognizing segment tables.
var segmentLabels = []string{
	"chapter", "subchapter", "text", "visual", "graphic",
	"interactivity", "reference", "note", "setting",
}

// questionLabels is the label vocabulary for recognizing question tables.
var questionLabels = []string{"question", "answer", "feedback", "solution"}

// Load reads a rendered storyboard: .docx via the go-docx reader, or a
// YAML/JSON block artifact for anything else.
func Load(path string) (*Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".docx") {
		return ReadDocx(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing document %s: %w", path, err)
	}
	return &doc, nil
}

// Outline converts the extracted chapters to the shared chapter type,
// satisfying the outline.Extractor interface. Rendered documents carry
// no slide numbers, so anchors and member lists stay empty.
func (d *Document) Outline() ([]types.Chapter, error) {
	st := Extract(d)
	chapters := make([]types.Chapter, 0, len(st.Chapters))
	for _, ch := range st.Chapters {
		c := types.Chapter{Title: ch.Title}
		for _, sub := range ch.Subchapters {
			c.Subchapters = append(c.Subchapters, types.Subchapter{Title: sub})
		}
		chapters = append(chapters, c)
	}
	return chapters, nil
}

// Extract walks the block sequence and classifies headings and tables.
// Segments and questions inherit the chapter and subchapter headings
// they appear under.
func Extract(d *Document) Structure {
	st := Structure{Abbreviations: make(map[string]string)}

	currentChapter := ""
	currentSubchapter := ""

	for _, b := range d.Blocks {
		switch b.Kind {
		case BlockHeading:
			text := strings.TrimSpace(b.Text)
			if text == "" {
				continue
			}
			switch b.Style {
			case chapterStyle:
				currentChapter = text
				currentSubchapter = ""
				st.Chapters = append(st.Chapters, DocChapter{Title: text})
			case subchapterStyle:
				currentSubchapter = text
				if len(st.Chapters) > 0 {
					last := &st.Chapters[len(st.Chapters)-1]
					last.Subchapters = append(last.Subchapters, text)
				}
			}

		case BlockTable:
			switch {
			case isAbbreviationTable(b.Rows):
				for k, v := range tableAbbreviations(b.Rows) {
					st.Abbreviations[k] = v
				}
			case isSegmentTable(b.Rows):
				seg := decodeSegment(b.Rows)
				if seg.Chapter == "" {
					seg.Chapter = currentChapter
				}
				if seg.Subchapter == "" {
					seg.Subchapter = currentSubchapter
				}
				st.Segments = append(st.Segments, seg)
			case isQuestionTable(b.Rows):
				q := decodeQuestion(b.Rows)
				if q.Chapter == "" {
					q.Chapter = currentChapter
				}
				if q.Subchapter == "" {
					q.Subchapter = currentSubchapter
				}
				st.Questions = append(st.Questions, q)
			}
		}
	}
	return st
}

// isAbbreviationTable recognizes two-column tables whose header mentions
// abbreviations, or whose first column opens with short uppercase tokens.
func isAbbreviationTable(rows [][]string) bool {
	if len(rows) == 0 || len(rows[0]) != 2 {
		return false
	}
	for _, cell := range rows[0] {
		if strings.Contains(strings.ToLower(cell), "abbreviation") {
			return true
		}
	}
	if len(rows) > 3 {
		upper := 0
		for _, row := range rows[1:4] {
			if len(row) > 0 && row[0] == strings.ToUpper(row[0]) && row[0] != "" && len(row[0]) < 10 {
				upper++
			}
		}
		return upper >= 2
	}
	return false
}

// isSegmentTable recognizes 3- or 4-column tables with at least two
// label-vocabulary matches in the first column.
func isSegmentTable(rows [][]string) bool {
	if len(rows) == 0 {
		return false
	}
	cols := len(rows[0])
	if cols != 3 && cols != 4 {
		return false
	}
	return labelMatches(rows, segmentLabels) >= 2
}

// isQuestionTable recognizes tables with at least two question-vocabulary
// matches in the first column.
func isQuestionTable(rows [][]string) bool {
	if len(rows) == 0 {
		return false
	}
	return labelMatches(rows, questionLabels) >= 2
}

func labelMatches(rows [][]string, labels []string) int {
	matches := 0
	for _, label := range labels {
		for _, row := range rows {
			if len(row) > 0 && strings.Contains(strings.ToLower(row[0]), label) {
				matches++
				break
			}
		}
	}
	return matches
}

func tableAbbreviations(rows [][]string) map[string]string {
	out := make(map[string]string)
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) >= 2 {
			token := strings.TrimSpace(row[0])
			def := strings.TrimSpace(row[1])
			if token != "" && def != "" {
				out[token] = def
			}
		}
	}
	return out
}

func decodeSegment(rows [][]string) Segment {
	var seg Segment
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(row[0]))
		value := strings.TrimSpace(row[1])
		switch {
		case strings.Contains(label, "subchapter"):
			seg.Subchapter = value
		case strings.Contains(label, "chapter"):
			seg.Chapter = value
		case strings.Contains(label, "text"):
			seg.Text = value
		case strings.Contains(label, "visual") || strings.Contains(label, "graphic"):
			seg.Visuals = value
		case strings.Contains(label, "interactivity"):
			seg.Interactivity = value
		case strings.Contains(label, "reference"):
			seg.References = value
		case strings.Contains(label, "note") || strings.Contains(label, "setting"):
			seg.Notes = value
		}
	}
	return seg
}

func decodeQuestion(rows [][]string) Question {
	var q Question
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(row[0]))
		value := strings.TrimSpace(row[1])
		switch {
		case strings.Contains(label, "subchapter"):
			q.Subchapter = value
		case strings.Contains(label, "chapter"):
			q.Chapter = value
		case strings.Contains(label, "feedback"):
			q.Feedback = value
		case strings.Contains(label, "answer"):
			q.Answers = value
		case strings.Contains(label, "solution"):
			q.Solution = value
		case strings.Contains(label, "question") || strings.Contains(label, "text"):
			q.Text = value
		}
	}
	return q
}
