// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storydoc

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// ReadDocx parses a .docx storyboard into the flat block model. Styled
// paragraphs become heading blocks and tables become row/cell text
// blocks; unstyled body paragraphs carry no structure and are dropped.
func ReadDocx(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	parsed, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parsing docx %s: %w", path, err)
	}

	doc := &Document{Source: path}
	for _, item := range parsed.Document.Body.Items {
		switch el := item.(type) {
		case *docx.Paragraph:
			style := paragraphStyle(el)
			if style == "" {
				continue
			}
			text := paragraphText(el)
			if text == "" {
				continue
			}
			doc.Blocks = append(doc.Blocks, Block{
				Kind:  BlockHeading,
				Text:  text,
				Style: normalizeStyle(style),
			})
		case *docx.Table:
			rows := tableRows(el)
			if len(rows) > 0 {
				doc.Blocks = append(doc.Blocks, Block{Kind: BlockTable, Rows: rows})
			}
		}
	}
	return doc, nil
}

func paragraphStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

// normalizeStyle maps the style IDs Word writes (no spaces) to the
// display names the extractor matches on.
func normalizeStyle(style string) string {
	switch {
	case strings.EqualFold(style, "Heading1") || strings.EqualFold(style, "heading 1"):
		return chapterStyle
	case strings.EqualFold(style, "AXSubhead") || strings.EqualFold(style, "AX Subhead"):
		return subchapterStyle
	}
	return style
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func tableRows(tbl *docx.Table) [][]string {
	var rows [][]string
	for _, tr := range tbl.TableRows {
		var row []string
		for _, tc := range tr.TableCells {
			var cell strings.Builder
			for _, para := range tc.Paragraphs {
				if text := paragraphText(para); text != "" {
					if cell.Len() > 0 {
						cell.WriteString("\n")
					}
					cell.WriteString(text)
				}
			}
			row = append(row, cell.String())
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}
