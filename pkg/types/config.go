// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "storyboard-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// StoreConfig holds settings for the persistent abbreviation store.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "data/abbreviations.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// CacheTTL bounds how long looked-up entries stay in the hot cache
	// (default 10m).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
}

// RemoteLookupConfig holds settings for the remote abbreviation service.
type RemoteLookupConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the lookup service; optional for the
	// free tier.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// RequestsPerMinute caps the query rate (default 60).
	RequestsPerMinute int `json:"requests_per_minute" yaml:"requests_per_minute"`

	// CacheTTL bounds how long responses are cached (default 24h).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// MaxCandidates is the number of candidate definitions requested
	// per token (default 10).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`
}

// ResolverConfig holds settings for the abbreviation resolver.
type ResolverConfig struct {
	// KnownFile is the static known-definitions table (JSON or YAML map
	// of token to definition). Missing file means an empty table.
	KnownFile string `json:"known_file" yaml:"known_file"`

	// AuxiliaryFile is the auxiliary dictionary; values may be strings
	// or lists of candidate definitions (the first entry wins).
	AuxiliaryFile string `json:"auxiliary_file" yaml:"auxiliary_file"`

	// EnableStore wires the persistent store into the lookup chain.
	EnableStore bool `json:"enable_store" yaml:"enable_store"`

	// EnableRemote wires the remote lookup service into the chain.
	EnableRemote bool `json:"enable_remote" yaml:"enable_remote"`

	Store  StoreConfig        `json:"store" yaml:"store"`
	Remote RemoteLookupConfig `json:"remote" yaml:"remote"`
}

// LearnerConfig holds settings for the pattern learner.
type LearnerConfig struct {
	// ExamplesDir contains input/<project>/ decks and output/<project>/
	// storyboard documents paired by file stem.
	ExamplesDir string `json:"examples_dir" yaml:"examples_dir"`

	// SimilarityThreshold is the minimum Jaccard word similarity for a
	// slide to count as a segment's source (default 0.3).
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`

	// PatternsFile is where the learned pattern set is written
	// (default "learned-patterns.yaml").
	PatternsFile string `json:"patterns_file" yaml:"patterns_file"`

	// ReportFile is where the diagnostic report is written; empty
	// disables the report.
	ReportFile string `json:"report_file" yaml:"report_file"`
}

// TransformConfig holds settings for the pattern-based transformer.
type TransformConfig struct {
	// PatternsFile is the learned pattern artifact to apply. A missing
	// file substitutes the built-in defaults.
	PatternsFile string `json:"patterns_file" yaml:"patterns_file"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Resolver  ResolverConfig  `json:"resolver" yaml:"resolver"`
	Learner   LearnerConfig   `json:"learner" yaml:"learner"`
	Transform TransformConfig `json:"transform" yaml:"transform"`
}
