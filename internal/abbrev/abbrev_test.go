// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abbrev

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/storyboard-engine/pkg/types"
)

func deckFromTexts(texts ...string) *types.Deck {
	d := &types.Deck{}
	for i, t := range texts {
		d.Slides = append(d.Slides, types.Slide{
			Number: i + 1,
			Texts:  []types.TextItem{{Text: t}},
		})
	}
	return d
}

// fakeSource is a scripted lookup source for chain tests.
type fakeSource struct {
	name    string
	answers map[string]string
	err     error
	calls   []string
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Lookup(_ context.Context, token string) (string, bool, error) {
	f.calls = append(f.calls, token)
	if f.err != nil {
		return "", false, f.err
	}
	def, ok := f.answers[token]
	return def, ok, nil
}

func (f *fakeSource) BulkLookup(ctx context.Context, tokens []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, t := range tokens {
		if def, ok, _ := f.Lookup(ctx, t); ok {
			out[t] = def
		}
	}
	return out, nil
}

func TestValid(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"CKD", true},
		{"EGFR", true},
		{"HbA1c", false}, // mixed case fails the shape
		{"A", false},     // too short
		{"ABCDEFG", false},
		{"AND", false}, // stop-list
		{"III", false}, // Roman numeral
		{"IV", false},
		{"CD-20", true},
		{"1CD", false}, // must start with a letter
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := Valid(tt.token); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestResolveExplicitDefinitions(t *testing.T) {
	r, err := NewResolver(types.ResolverConfig{})
	if err != nil {
		t.Fatal(err)
	}

	d := deckFromTexts(
		"Chronic Kidney Disease (CKD) affects millions worldwide.",
		"CKD progression is staged by GFR (glomerular filtration rate).",
	)

	entries, _, err := r.Resolve(context.Background(), d, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	ckd := entries["CKD"]
	if ckd.Definition != "Chronic Kidney Disease" {
		t.Errorf("CKD = %q, want Chronic Kidney Disease", ckd.Definition)
	}
	if ckd.Provenance != types.ProvenanceExplicit {
		t.Errorf("CKD provenance = %v, want explicit", ckd.Provenance)
	}

	gfr := entries["GFR"]
	if gfr.Definition != "glomerular filtration rate" {
		t.Errorf("GFR = %q, want glomerular filtration rate", gfr.Definition)
	}
}

func TestResolveFirstDefinitionWins(t *testing.T) {
	r, err := NewResolver(types.ResolverConfig{})
	if err != nil {
		t.Fatal(err)
	}

	d := deckFromTexts(
		"Overall Survival (OS) was the primary endpoint.",
		"Operating System (OS) is a different expansion that must not win.",
	)

	entries, _, err := r.Resolve(context.Background(), d, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if got := entries["OS"].Definition; got != "Overall Survival" {
		t.Errorf("OS = %q, want the first-encountered definition", got)
	}
}

func TestResolveLookupChain(t *testing.T) {
	dir := t.TempDir()
	knownFile := filepath.Join(dir, "known.json")
	auxFile := filepath.Join(dir, "aux.json")
	os.WriteFile(knownFile, []byte(`{"EGFR": "estimated glomerular filtration rate"}`), 0o644)
	os.WriteFile(auxFile, []byte(`{"HTN": ["Hypertension", "Hypertensive disease"]}`), 0o644)

	src := &fakeSource{name: "store", answers: map[string]string{"LDL": "low-density lipoprotein"}}

	r, err := NewResolver(types.ResolverConfig{
		KnownFile:     knownFile,
		AuxiliaryFile: auxFile,
	}, src)
	if err != nil {
		t.Fatal(err)
	}

	d := deckFromTexts("EGFR and HTN and BID dosing and LDL and ZZQX were discussed.")

	entries, warnings, err := r.Resolve(context.Background(), d, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		token      string
		definition string
		provenance types.Provenance
	}{
		{"EGFR", "estimated glomerular filtration rate", types.ProvenanceKnown},
		{"HTN", "Hypertension", types.ProvenanceAuxiliary},
		{"BID", "twice daily", types.ProvenanceNotation},
		{"LDL", "low-density lipoprotein", types.ProvenanceStore},
		{"ZZQX", types.NotDefined, types.ProvenanceMissing},
	}
	for _, tt := range tests {
		entry, ok := entries[tt.token]
		if !ok {
			t.Errorf("%s missing from entries", tt.token)
			continue
		}
		if entry.Definition != tt.definition {
			t.Errorf("%s = %q, want %q", tt.token, entry.Definition, tt.definition)
		}
		if entry.Provenance != tt.provenance {
			t.Errorf("%s provenance = %v, want %v", tt.token, entry.Provenance, tt.provenance)
		}
	}

	if len(warnings) != 1 || warnings[0] != "ZZQX" {
		t.Errorf("warnings = %v, want [ZZQX]", warnings)
	}

	// Known/aux/notation tokens never reach the external source.
	for _, token := range src.calls {
		if token != "LDL" && token != "ZZQX" {
			t.Errorf("source consulted for %s, which earlier chain links resolve", token)
		}
	}
}

func TestResolveSourceErrorDegrades(t *testing.T) {
	failing := &fakeSource{name: "store", err: fmt.Errorf("database locked")}
	backup := &fakeSource{name: "remote", answers: map[string]string{"LDL": "low-density lipoprotein"}}

	r, err := NewResolver(types.ResolverConfig{}, failing, backup)
	if err != nil {
		t.Fatal(err)
	}

	var log strings.Builder
	d := deckFromTexts("LDL levels were elevated.")

	entries, warnings, err := r.Resolve(context.Background(), d, &log)
	if err != nil {
		t.Fatal(err)
	}
	if got := entries["LDL"]; got.Definition != "low-density lipoprotein" || got.Provenance != types.ProvenanceRemote {
		t.Errorf("LDL = %+v, want remote fallback", got)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if !strings.Contains(log.String(), "store lookup failed") {
		t.Errorf("log = %q, want store failure notice", log.String())
	}
}

func TestResolverCacheInvalidate(t *testing.T) {
	src := &fakeSource{name: "store", answers: map[string]string{"LDL": "low-density lipoprotein"}}
	r, err := NewResolver(types.ResolverConfig{}, src)
	if err != nil {
		t.Fatal(err)
	}

	d := deckFromTexts("LDL again.")
	if _, _, err := r.Resolve(context.Background(), d, io.Discard); err != nil {
		t.Fatal(err)
	}
	if _, _, err := r.Resolve(context.Background(), d, io.Discard); err != nil {
		t.Fatal(err)
	}
	if len(src.calls) != 1 {
		t.Fatalf("source calls = %d, want 1 (second run cached)", len(src.calls))
	}

	r.InvalidateCache()
	if _, _, err := r.Resolve(context.Background(), d, io.Discard); err != nil {
		t.Fatal(err)
	}
	if len(src.calls) != 2 {
		t.Errorf("source calls = %d, want 2 after invalidation", len(src.calls))
	}
}

func TestLoadDictionariesMissingFiles(t *testing.T) {
	r, err := NewResolver(types.ResolverConfig{
		KnownFile:     "does/not/exist.json",
		AuxiliaryFile: "also/missing.yaml",
	})
	if err != nil {
		t.Fatalf("missing dictionaries should not error: %v", err)
	}
	if len(r.known) != 0 || len(r.aux) != 0 {
		t.Error("missing files should yield empty tables")
	}
}
