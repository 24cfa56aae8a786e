// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abbrev

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/storyboard-engine/pkg/types"
)

// fastRemoteConfig avoids rate-limiter stalls in tests.
func fastRemoteConfig() types.RemoteLookupConfig {
	return types.RemoteLookupConfig{RequestsPerMinute: 60000}
}

func withRemoteBase(t *testing.T, url string) {
	t.Helper()
	old := remoteLookupBase
	remoteLookupBase = url
	t.Cleanup(func() { remoteLookupBase = old })
}

func TestRemoteLookup(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "CKD", r.URL.Query().Get("keywords"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		json.NewEncoder(w).Encode(remoteResponse{Results: []remoteCandidate{
			{Abbreviation: "CKD", LongForm: "creatine kinase disorder", Frequency: 2},
			{Abbreviation: "CKD", LongForm: "chronic kidney disease", Frequency: 930},
			{Abbreviation: "CKDX", LongForm: "unrelated", Frequency: 9999},
		}})
	}))
	defer ts.Close()
	withRemoteBase(t, ts.URL)

	src := NewRemoteSource(fastRemoteConfig())

	def, found, err := src.Lookup(context.Background(), "CKD")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "chronic kidney disease", def)

	// Second lookup is served from the cache.
	_, _, err = src.Lookup(context.Background(), "ckd")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRemoteLookupMissCached(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(remoteResponse{})
	}))
	defer ts.Close()
	withRemoteBase(t, ts.URL)

	src := NewRemoteSource(fastRemoteConfig())

	_, found, err := src.Lookup(context.Background(), "ZZQX")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = src.Lookup(context.Background(), "ZZQX")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "miss should be cached")
}

func TestRemoteLookupServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()
	withRemoteBase(t, ts.URL)

	src := NewRemoteSource(fastRemoteConfig())

	_, _, err := src.Lookup(context.Background(), "CKD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestRemoteLookupAuthHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))
		assert.Equal(t, "storyboard-engine/test", r.Header.Get("User-Agent"))
		json.NewEncoder(w).Encode(remoteResponse{})
	}))
	defer ts.Close()
	withRemoteBase(t, ts.URL)

	cfg := fastRemoteConfig()
	cfg.APIKey = "sekrit"
	cfg.UserAgent = "storyboard-engine/test"
	src := NewRemoteSource(cfg)

	_, _, err := src.Lookup(context.Background(), "CKD")
	require.NoError(t, err)
}

func TestRemoteBulkLookupSkipsErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("keywords")
		if token == "BAD" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(remoteResponse{Results: []remoteCandidate{
			{Abbreviation: token, LongForm: "expansion of " + token, Frequency: 1},
		}})
	}))
	defer ts.Close()
	withRemoteBase(t, ts.URL)

	src := NewRemoteSource(fastRemoteConfig())

	got, err := src.BulkLookup(context.Background(), []string{"CKD", "BAD", "LDL"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"CKD": "expansion of CKD",
		"LDL": "expansion of LDL",
	}, got)
}
