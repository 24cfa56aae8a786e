// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abbrev

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/pdiddy/storyboard-engine/internal/httputil"
	"github.com/pdiddy/storyboard-engine/pkg/types"
)

// remoteLookupBase is the abbreviation search endpoint. Declared as a
// var so tests can substitute an httptest server.
var remoteLookupBase = "https://allie.dbcls.jp/api/search"

const (
	defaultRemoteTimeout  = 10 * time.Second
	defaultRemoteTTL      = 24 * time.Hour
	defaultRemoteRate     = 60 // requests per minute
	defaultMaxCandidates  = 10
	defaultRemoteAttempts = 2
)

// RemoteSource queries the online abbreviation search service. Requests
// are rate-limited and responses (including misses) are cached, so a
// token is asked at most once per TTL.
type RemoteSource struct {
	client  *http.Client
	limiter *rate.Limiter
	cache   *gocache.Cache
	cfg     types.RemoteLookupConfig
}

// remoteResponse is the service's result envelope.
type remoteResponse struct {
	Results []remoteCandidate `json:"results"`
}

// remoteCandidate is one candidate definition, ordered by corpus frequency.
type remoteCandidate struct {
	Abbreviation string `json:"abbreviation"`
	LongForm     string `json:"long_form"`
	Frequency    int    `json:"frequency"`
}

// NewRemoteSource builds a rate-limited, caching client for the remote
// lookup service.
func NewRemoteSource(cfg types.RemoteLookupConfig) *RemoteSource {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = defaultRemoteRate
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultRemoteTTL
	}

	return &RemoteSource{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
		cache:   gocache.New(ttl, ttl),
		cfg:     cfg,
	}
}

// Name identifies the source in the resolver's chain.
func (r *RemoteSource) Name() string { return "remote" }

// Lookup queries the service for a token and returns the top candidate
// definition. Misses and hits are both cached; transport failures are
// returned so the resolver can degrade to the sentinel.
func (r *RemoteSource) Lookup(ctx context.Context, token string) (string, bool, error) {
	token = strings.ToUpper(token)

	if cached, ok := r.cache.Get(token); ok {
		def := cached.(string)
		return def, def != "", nil
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return "", false, err
	}

	maxCandidates := r.cfg.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}

	params := url.Values{
		"keywords": {token},
		"format":   {"json"},
		"count":    {strconv.Itoa(maxCandidates)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteLookupBase+"?"+params.Encode(), nil)
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", err)
	}
	if r.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", r.cfg.UserAgent)
	}
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, r.client, req, defaultRemoteAttempts)
	if err != nil {
		return "", false, fmt.Errorf("lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("lookup service returned status %d", resp.StatusCode)
	}

	var parsed remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", false, fmt.Errorf("decoding response: %w", err)
	}

	def := bestCandidate(token, parsed.Results)
	r.cache.SetDefault(token, def)
	return def, def != "", nil
}

// BulkLookup resolves tokens one at a time; lookup errors skip the token
// rather than failing the batch.
func (r *RemoteSource) BulkLookup(ctx context.Context, tokens []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, token := range tokens {
		def, found, err := r.Lookup(ctx, token)
		if err != nil {
			continue
		}
		if found {
			out[strings.ToUpper(token)] = def
		}
	}
	return out, nil
}

// bestCandidate picks the highest-frequency candidate whose abbreviation
// matches the token, preserving service order on frequency ties.
func bestCandidate(token string, candidates []remoteCandidate) string {
	best := ""
	bestFreq := -1
	for _, c := range candidates {
		if !strings.EqualFold(c.Abbreviation, token) {
			continue
		}
		if c.LongForm == "" {
			continue
		}
		if c.Frequency > bestFreq {
			best = c.LongForm
			bestFreq = c.Frequency
		}
	}
	return best
}
