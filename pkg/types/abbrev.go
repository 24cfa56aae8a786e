// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Provenance records which source produced an abbreviation definition.
type Provenance string

const (
	// ProvenanceExplicit means the definition appeared next to the token
	// in the deck text itself.
	ProvenanceExplicit Provenance = "explicit"
	// ProvenanceKnown is the in-memory known-definitions table.
	ProvenanceKnown Provenance = "known"
	// ProvenanceAuxiliary is the auxiliary static dictionary.
	ProvenanceAuxiliary Provenance = "auxiliary"
	// ProvenanceNotation is the built-in clinical notation table.
	ProvenanceNotation Provenance = "notation"
	// ProvenanceStore is the persistent abbreviation store.
	ProvenanceStore Provenance = "store"
	// ProvenanceRemote is the remote lookup service.
	ProvenanceRemote Provenance = "remote"
	// ProvenanceMissing means no source resolved the token; the entry
	// carries the NotDefined sentinel.
	ProvenanceMissing Provenance = "missing"
)

// NotDefined is the sentinel definition for tokens no source could resolve.
// It is surfaced verbatim so reviewers can spot unresolved entries.
const NotDefined = "(Not defined - please verify)"

// AbbreviationEntry is one resolved abbreviation. At most one definition
// surfaces per token: the first candidate found wins and later encounters
// are ignored.
type AbbreviationEntry struct {
	Definition string     `json:"definition" yaml:"definition"`
	Provenance Provenance `json:"provenance" yaml:"provenance"`
}

// Resolved reports whether the entry carries a real definition rather
// than the NotDefined sentinel.
func (e AbbreviationEntry) Resolved() bool {
	return e.Provenance != ProvenanceMissing
}
