// Package identity talks to the external identity provider: it trades an
// authorization code for provider tokens and fetches the caller's external
// identity with the resulting access token.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cmflairs/gateway/internal/serviceerr"
)

// Exchanger is the provider boundary the auth flow depends on. The HTTP
// implementation below is the production one; tests substitute stubs.
type Exchanger interface {
	Exchange(ctx context.Context, code string) (TokenResponse, error)
	Me(ctx context.Context, accessToken string) (Identity, error)
}

// TokenResponse is the provider's token-endpoint response.
type TokenResponse struct {
	AccessToken  string
	RefreshToken string
	Scopes       []string
	TokenType    string
	ExpiresIn    time.Duration
}

// Identity is the provider's view of the signed-in account.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	// NameIsMutable reports that the display name is still editable on the
	// provider side. Such accounts are not enrollable yet.
	NameIsMutable bool `json:"name_is_mutable"`
}

// Config carries the fixed provider endpoints and client credentials, loaded
// once at process start.
type Config struct {
	TokenURL     string
	IdentityURL  string
	RedirectURI  string
	ClientID     string
	ClientSecret string
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{cfg: cfg, httpClient: httpClient}
}

var _ Exchanger = (*Client)(nil)

// tokenResponse is the wire shape of the token endpoint. The scope list comes
// back as a single space-separated string, expires_in as integer seconds.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Exchange posts the authorization code to the provider's token endpoint
// using the client credentials as basic auth. Transport failures and non-2xx
// statuses surface as upstream errors; a response that is not the expected
// schema surfaces as a token-creation error.
func (c *Client) Exchange(ctx context.Context, code string) (TokenResponse, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", c.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TokenResponse{}, errors.Join(fmt.Errorf("executing token request: %w", err), serviceerr.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return TokenResponse{}, errors.Join(
			fmt.Errorf("token exchange failed with status: %d", resp.StatusCode),
			serviceerr.ErrUpstream,
		)
	}

	var wire tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return TokenResponse{}, errors.Join(
			fmt.Errorf("decoding token response: %w", err),
			serviceerr.TokenCreation("unexpected token response"),
		)
	}
	if wire.AccessToken == "" {
		return TokenResponse{}, serviceerr.TokenCreation("token response missing access_token")
	}

	return TokenResponse{
		AccessToken:  wire.AccessToken,
		RefreshToken: wire.RefreshToken,
		Scopes:       strings.Fields(wire.Scope),
		TokenType:    wire.TokenType,
		ExpiresIn:    time.Duration(wire.ExpiresIn) * time.Second,
	}, nil
}

// Me fetches the caller's external identity with the freshly issued access
// token.
func (c *Client) Me(ctx context.Context, accessToken string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.IdentityURL, nil)
	if err != nil {
		return Identity{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Identity{}, errors.Join(fmt.Errorf("executing identity request: %w", err), serviceerr.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Identity{}, errors.Join(
			fmt.Errorf("identity fetch failed with status: %d", resp.StatusCode),
			serviceerr.ErrUpstream,
		)
	}

	var me Identity
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return Identity{}, errors.Join(
			fmt.Errorf("decoding identity response: %w", err),
			serviceerr.TokenCreation("unexpected identity response"),
		)
	}
	if me.ID == "" {
		return Identity{}, serviceerr.TokenCreation("identity response missing id")
	}

	return me, nil
}
