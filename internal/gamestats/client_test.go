package gamestats_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmflairs/gateway/internal/gamestats"
	"github.com/cmflairs/gateway/internal/serviceerr"
)

func TestClient_ChampionMasteries(t *testing.T) {
	var calls atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		assert.Equal(t, "test-api-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "/na1/champion-mastery/v4/champion-masteries/by-puuid/puuid-1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"championId": 64, "championPoints": 123456, "championLevel": 7},
			{"championId": 103, "championPoints": 888, "championLevel": 2}
		]`))
	}))
	defer srv.Close()

	client := gamestats.NewClient(gamestats.Config{
		BaseURL:  srv.URL + "/%s",
		APIKey:   "test-api-key",
		CacheTTL: time.Minute,
	}, srv.Client())

	want := []gamestats.ChampScore{
		{Champion: 64, Points: 123456, Level: 7},
		{Champion: 103, Points: 888, Level: 2},
	}

	got, err := client.ChampionMasteries(t.Context(), "na1", "puuid-1")
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("masteries mismatch (-want +got):\n%s", diff)
	}

	// Second call is served from the cache.
	_, err = client.ChampionMasteries(t.Context(), "na1", "puuid-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load())
}

func TestClient_ChampionMasteries_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := gamestats.NewClient(gamestats.Config{BaseURL: srv.URL + "/%s"}, srv.Client())

	_, err := client.ChampionMasteries(t.Context(), "na1", "puuid-1")
	assert.ErrorIs(t, err, serviceerr.ErrUpstream)
}
