// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package abbrev extracts abbreviation/definition pairs from deck text
// and resolves undefined tokens against a layered chain of sources:
// the known-definitions table, the auxiliary dictionary, the built-in
// notation table, and external sources (persistent store, remote
// service). External failures degrade to the next source; tokens no
// source resolves carry the NotDefined sentinel and a warning.
// See docs/ARCHITECTURE § Abbreviation Resolver.
package abbrev

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/storyboard-engine/pkg/types"
)

// Source is one external lookup capability. The resolver is agnostic to
// how many or which backing sources exist; it walks them in order and
// treats errors as a miss.
type Source interface {
	Name() string
	Lookup(ctx context.Context, token string) (string, bool, error)
	BulkLookup(ctx context.Context, tokens []string) (map[string]string, error)
}

// definitionPattern is one explicit-definition regular expression form
// and the group order it captures.
type definitionPattern struct {
	re        *regexp.Regexp
	termFirst bool
}

// The three explicit-definition forms: "Term (ABBR)", "ABBR (Term)",
// and "ABBR = Term" / "ABBR: Term". Earlier matches in slide order win.
var definitionPatterns = []definitionPattern{
	{regexp.MustCompile(`([A-Za-z][A-Za-z\s\-]+?)\s*\(([A-Z][A-Z0-9\-]{1,})\)`), true},
	{regexp.MustCompile(`([A-Z][A-Z0-9\-]{1,})\s*\(([A-Za-z][A-Za-z\s\-]+?)\)`), false},
	{regexp.MustCompile(`([A-Z][A-Z0-9\-]{1,})\s*[=:]\s*([A-Za-z][A-Za-z\s\-]+)`), false},
}

// candidatePattern matches bare tokens shaped like abbreviations. The
// validity filter narrows these further.
var candidatePattern = regexp.MustCompile(`\b([A-Z][A-Z0-9\-]{1,6})\b`)

// tokenShape is the character-class part of the validity filter.
var tokenShape = regexp.MustCompile(`^[A-Z][A-Z0-9\-]*$`)

// Valid reports whether a token passes the candidate filter: length
// 2 to 6, uppercase letter followed by uppercase letters, digits, or
// hyphens, and not on the stop-list.
func Valid(token string) bool {
	if len(token) < 2 || len(token) > 6 {
		return false
	}
	if !tokenShape.MatchString(token) {
		return false
	}
	return !stopList[token]
}

// Resolver owns the lookup chain and caches for one or more conversion
// runs. All state is explicit: the resolved-entry cache is a field, not
// ambient, and InvalidateCache clears it.
type Resolver struct {
	known   map[string]string
	aux     map[string][]string
	sources []Source

	mu    sync.Mutex
	cache *gocache.Cache
}

// NewResolver loads the static dictionaries named by cfg and wires the
// given external sources in order. Missing dictionary files are treated
// as empty tables, not errors.
func NewResolver(cfg types.ResolverConfig, sources ...Source) (*Resolver, error) {
	known, err := loadStringMap(cfg.KnownFile)
	if err != nil {
		return nil, fmt.Errorf("loading known definitions: %w", err)
	}
	aux, err := loadListMap(cfg.AuxiliaryFile)
	if err != nil {
		return nil, fmt.Errorf("loading auxiliary dictionary: %w", err)
	}
	return &Resolver{
		known:   known,
		aux:     aux,
		sources: sources,
		cache:   gocache.New(gocache.NoExpiration, 0),
	}, nil
}

// InvalidateCache drops all cached resolutions.
func (r *Resolver) InvalidateCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Flush()
}

// Resolve produces the abbreviation map for a deck plus the warning
// list of tokens no source could resolve. Resolution never mutates the
// deck; external failures are reported on w and degrade silently.
func (r *Resolver) Resolve(ctx context.Context, d *types.Deck, w io.Writer) (map[string]types.AbbreviationEntry, []string, error) {
	entries := make(map[string]types.AbbreviationEntry)

	// Pass 1: explicit definitions, first found in slide order wins.
	for _, slide := range d.Slides {
		for _, item := range slide.Texts {
			for _, p := range definitionPatterns {
				for _, m := range p.re.FindAllStringSubmatch(item.Text, -1) {
					token, term := m[2], m[1]
					if !p.termFirst {
						token, term = m[1], m[2]
					}
					token = strings.TrimSpace(token)
					term = strings.TrimSpace(term)
					if _, seen := entries[token]; seen {
						continue
					}
					if Valid(token) && term != "" {
						entries[token] = types.AbbreviationEntry{
							Definition: term,
							Provenance: types.ProvenanceExplicit,
						}
					}
				}
			}
		}
	}

	// Pass 2: bare candidate tokens in slide order, deduplicated.
	var candidates []string
	seen := make(map[string]bool)
	for _, slide := range d.Slides {
		for _, item := range slide.Texts {
			for _, m := range candidatePattern.FindAllString(item.Text, -1) {
				if !seen[m] && Valid(m) {
					seen[m] = true
					candidates = append(candidates, m)
				}
			}
		}
	}

	// Pass 3: resolve candidates without an explicit definition.
	var warnings []string
	for _, token := range candidates {
		if _, ok := entries[token]; ok {
			continue
		}
		entry := r.resolveToken(ctx, token, w)
		entries[token] = entry
		if !entry.Resolved() {
			warnings = append(warnings, token)
		}
	}
	sort.Strings(warnings)

	return entries, warnings, nil
}

// resolveToken walks the lookup chain for one token.
func (r *Resolver) resolveToken(ctx context.Context, token string, w io.Writer) types.AbbreviationEntry {
	if cached, ok := r.cache.Get(token); ok {
		return cached.(types.AbbreviationEntry)
	}

	entry := r.lookupChain(ctx, token, w)

	r.mu.Lock()
	r.cache.SetDefault(token, entry)
	r.mu.Unlock()
	return entry
}

func (r *Resolver) lookupChain(ctx context.Context, token string, w io.Writer) types.AbbreviationEntry {
	if def, ok := r.known[token]; ok {
		return types.AbbreviationEntry{Definition: def, Provenance: types.ProvenanceKnown}
	}
	if defs, ok := r.aux[token]; ok && len(defs) > 0 {
		return types.AbbreviationEntry{Definition: defs[0], Provenance: types.ProvenanceAuxiliary}
	}
	if def, ok := notationTable[token]; ok {
		return types.AbbreviationEntry{Definition: def, Provenance: types.ProvenanceNotation}
	}
	for _, src := range r.sources {
		def, found, err := src.Lookup(ctx, token)
		if err != nil {
			fmt.Fprintf(w, "warning: %s lookup failed for %s: %v\n", src.Name(), token, err)
			continue
		}
		if found {
			return types.AbbreviationEntry{Definition: def, Provenance: provenanceFor(src)}
		}
	}
	return types.AbbreviationEntry{Definition: types.NotDefined, Provenance: types.ProvenanceMissing}
}

func provenanceFor(src Source) types.Provenance {
	switch src.Name() {
	case "store":
		return types.ProvenanceStore
	case "remote":
		return types.ProvenanceRemote
	}
	return types.Provenance(src.Name())
}

// loadStringMap reads a token-to-definition map (YAML or JSON). Tokens
// are normalized to upper case. A missing path yields an empty map.
func loadStringMap(path string) (map[string]string, error) {
	out := make(map[string]string)
	if path == "" {
		return out, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for k, v := range raw {
		out[strings.ToUpper(k)] = v
	}
	return out, nil
}

// loadListMap reads a dictionary whose values are a definition string or
// a list of candidates. A missing path yields an empty map.
func loadListMap(path string) (map[string][]string, error) {
	out := make(map[string][]string)
	if path == "" {
		return out, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Fall back to YAML with the same value shapes.
		var yraw map[string]interface{}
		if yerr := yaml.Unmarshal(data, &yraw); yerr != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		for k, v := range yraw {
			out[strings.ToUpper(k)] = toStringList(v)
		}
		return out, nil
	}
	for k, v := range raw {
		var list []string
		if err := json.Unmarshal(v, &list); err != nil {
			var single string
			if err := json.Unmarshal(v, &single); err != nil {
				return nil, fmt.Errorf("parsing %s: entry %s has unsupported shape", path, k)
			}
			list = []string{single}
		}
		out[strings.ToUpper(k)] = list
	}
	return out, nil
}

func toStringList(v interface{}) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []interface{}:
		var list []string
		for _, e := range t {
			if s, ok := e.(string); ok {
				list = append(list, s)
			}
		}
		return list
	}
	return nil
}
