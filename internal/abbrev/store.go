// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abbrev

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	gocache "github.com/patrickmn/go-cache"

	"github.com/pdiddy/storyboard-engine/pkg/types"
)

const defaultCacheTTL = 10 * time.Minute

// Store is the persistent abbreviation database. Each row keeps the
// full candidate-definition list as JSON; Lookup surfaces the first.
// A TTL cache fronts the hot path; reads are lock-free and writes are
// serialized on mu, so the store is safe to share across parallel
// conversions.
type Store struct {
	db    *sql.DB
	cache *gocache.Cache

	mu sync.Mutex
}

// StoreStats summarizes the database for the stats command.
type StoreStats struct {
	Total      int            `json:"total" yaml:"total"`
	Categories map[string]int `json:"categories" yaml:"categories"`
	CacheSize  int            `json:"cache_size" yaml:"cache_size"`
}

// NewStore opens or creates the abbreviation database at cfg.DBPath and
// creates the schema if needed.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = filepath.Join("data", "abbreviations.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	s := &Store{
		db:    db,
		cache: gocache.New(ttl, 2*ttl),
	}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS abbreviations (
			abbreviation TEXT PRIMARY KEY,
			definitions TEXT NOT NULL,
			category TEXT,
			source TEXT,
			confidence REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_abbreviation ON abbreviations(abbreviation)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Name identifies the store in the resolver's source chain.
func (s *Store) Name() string { return "store" }

// Lookup returns the first stored definition for a token.
func (s *Store) Lookup(ctx context.Context, token string) (string, bool, error) {
	token = strings.ToUpper(token)

	if cached, ok := s.cache.Get(token); ok {
		defs := cached.([]string)
		if len(defs) == 0 {
			return "", false, nil
		}
		return defs[0], true, nil
	}

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT definitions FROM abbreviations WHERE abbreviation = ?`, token,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		s.cacheDefs(token, nil)
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying %s: %w", token, err)
	}

	defs, err := decodeDefs(raw)
	if err != nil {
		return "", false, fmt.Errorf("decoding definitions for %s: %w", token, err)
	}
	s.cacheDefs(token, defs)
	if len(defs) == 0 {
		return "", false, nil
	}
	return defs[0], true, nil
}

// BulkLookup resolves many tokens in one query, consulting the cache
// first. Tokens without a stored entry are absent from the result.
func (s *Store) BulkLookup(ctx context.Context, tokens []string) (map[string]string, error) {
	out := make(map[string]string)
	var uncached []string

	for _, t := range tokens {
		token := strings.ToUpper(t)
		if cached, ok := s.cache.Get(token); ok {
			if defs := cached.([]string); len(defs) > 0 {
				out[token] = defs[0]
			}
			continue
		}
		uncached = append(uncached, token)
	}
	if len(uncached) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(uncached)), ",")
	args := make([]interface{}, len(uncached))
	for i, t := range uncached {
		args[i] = t
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT abbreviation, definitions FROM abbreviations WHERE abbreviation IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("bulk query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var token, raw string
		if err := rows.Scan(&token, &raw); err != nil {
			return nil, fmt.Errorf("scanning bulk row: %w", err)
		}
		defs, err := decodeDefs(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding definitions for %s: %w", token, err)
		}
		s.cacheDefs(token, defs)
		if len(defs) > 0 {
			out[token] = defs[0]
		}
	}
	return out, rows.Err()
}

// Add appends a definition to a token's candidate list, creating the row
// if needed, and invalidates the token's cache entry.
func (s *Store) Add(ctx context.Context, token, definition, category string) error {
	token = strings.ToUpper(strings.TrimSpace(token))
	definition = strings.TrimSpace(definition)
	if token == "" || definition == "" {
		return fmt.Errorf("token and definition are required")
	}
	if category == "" {
		category = "Custom"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT definitions FROM abbreviations WHERE abbreviation = ?`, token,
	).Scan(&raw)

	switch {
	case err == sql.ErrNoRows:
		encoded, _ := json.Marshal([]string{definition})
		_, err = tx.ExecContext(ctx,
			`INSERT INTO abbreviations (abbreviation, definitions, category, source) VALUES (?, ?, ?, ?)`,
			token, string(encoded), category, "custom")
		if err != nil {
			return fmt.Errorf("inserting %s: %w", token, err)
		}
	case err != nil:
		return fmt.Errorf("querying %s: %w", token, err)
	default:
		defs, err := decodeDefs(raw)
		if err != nil {
			return fmt.Errorf("decoding definitions for %s: %w", token, err)
		}
		if !stringIn(definition, defs) {
			defs = append(defs, definition)
			encoded, _ := json.Marshal(defs)
			_, err = tx.ExecContext(ctx,
				`UPDATE abbreviations SET definitions = ?, category = ? WHERE abbreviation = ?`,
				string(encoded), category, token)
			if err != nil {
				return fmt.Errorf("updating %s: %w", token, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.cache.Delete(token)
	return nil
}

// ImportCSV loads abbreviation,definition[,category] rows from a CSV
// file with a header. Rows that fail are reported on w and skipped.
func (s *Store) ImportCSV(ctx context.Context, path string, w io.Writer) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("reading CSV header: %w", err)
	}
	abbrCol, defCol, catCol := columnIndexes(header)
	if abbrCol < 0 || defCol < 0 {
		return 0, fmt.Errorf("CSV header must include abbreviation and definition columns")
	}

	imported := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(w, "failed  row: %v\n", err)
			continue
		}
		if len(record) <= abbrCol || len(record) <= defCol {
			continue
		}
		token := strings.TrimSpace(record[abbrCol])
		definition := strings.TrimSpace(record[defCol])
		category := "General"
		if catCol >= 0 && len(record) > catCol && strings.TrimSpace(record[catCol]) != "" {
			category = strings.TrimSpace(record[catCol])
		}
		if token == "" || definition == "" {
			continue
		}
		if err := s.Add(ctx, token, definition, category); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", token, err)
			continue
		}
		imported++
	}
	return imported, nil
}

// Stats returns entry counts overall and per category.
func (s *Store) Stats(ctx context.Context) (StoreStats, error) {
	stats := StoreStats{Categories: make(map[string]int)}

	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM abbreviations`).Scan(&stats.Total); err != nil {
		return stats, fmt.Errorf("counting entries: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT coalesce(category, ''), count(*) FROM abbreviations GROUP BY category`)
	if err != nil {
		return stats, fmt.Errorf("counting categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return stats, fmt.Errorf("scanning category row: %w", err)
		}
		if cat == "" {
			cat = "Uncategorized"
		}
		stats.Categories[cat] = n
	}
	stats.CacheSize = s.cache.ItemCount()
	return stats, rows.Err()
}

func (s *Store) cacheDefs(token string, defs []string) {
	s.cache.SetDefault(token, defs)
}

func decodeDefs(raw string) ([]string, error) {
	var defs []string
	if err := json.Unmarshal([]byte(raw), &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func columnIndexes(header []string) (abbr, def, cat int) {
	abbr, def, cat = -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "abbreviation", "abbr":
			abbr = i
		case "definition", "def":
			def = i
		case "category":
			cat = i
		}
	}
	return abbr, def, cat
}

func stringIn(s string, list []string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
