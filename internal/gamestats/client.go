// Package gamestats is the boundary client for the external game-statistics
// provider. Responses are cached briefly to stay inside the provider's rate
// limits.
package gamestats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/cmflairs/gateway/internal/serviceerr"
)

// ChampScore is one champion's mastery standing for a game account.
type ChampScore struct {
	Champion int `json:"champion"`
	Points   int `json:"points"`
	Level    int `json:"level"`
}

// Fetcher is the provider boundary the refresh worker depends on.
type Fetcher interface {
	ChampionMasteries(ctx context.Context, platform, puuid string) ([]ChampScore, error)
}

type Config struct {
	// BaseURL is expanded with the platform, e.g.
	// https://%s.api.provider.example.com.
	BaseURL string
	APIKey  string
	// CacheTTL bounds how long a masteries response is reused. Zero disables
	// the cache.
	CacheTTL time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	cache      *gocache.Cache
}

func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var cache *gocache.Cache
	if cfg.CacheTTL > 0 {
		cache = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	return &Client{cfg: cfg, httpClient: httpClient, cache: cache}
}

var _ Fetcher = (*Client)(nil)

// wire shape of the provider's champion-mastery listing.
type championMastery struct {
	ChampionID     int `json:"championId"`
	ChampionPoints int `json:"championPoints"`
	ChampionLevel  int `json:"championLevel"`
}

func (c *Client) ChampionMasteries(ctx context.Context, platform, puuid string) ([]ChampScore, error) {
	cacheKey := platform + "/" + puuid
	if c.cache != nil {
		if cached, ok := c.cache.Get(cacheKey); ok {
			//nolint:forcetypeassert
			return cached.([]ChampScore), nil
		}
	}

	uri := fmt.Sprintf(c.cfg.BaseURL, platform) +
		"/champion-mastery/v4/champion-masteries/by-puuid/" + puuid

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("executing masteries request: %w", err), serviceerr.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Join(
			fmt.Errorf("masteries fetch failed with status: %d", resp.StatusCode),
			serviceerr.ErrUpstream,
		)
	}

	var masteries []championMastery
	if err := json.NewDecoder(resp.Body).Decode(&masteries); err != nil {
		return nil, fmt.Errorf("decoding masteries response: %w", err)
	}

	scores := make([]ChampScore, 0, len(masteries))
	for _, m := range masteries {
		scores = append(scores, ChampScore{
			Champion: m.ChampionID,
			Points:   m.ChampionPoints,
			Level:    m.ChampionLevel,
		})
	}

	if c.cache != nil {
		c.cache.Set(cacheKey, scores, 0)
	}

	return scores, nil
}
