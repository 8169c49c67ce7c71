// Package authflow orchestrates the provider sign-in handshake: it hands out
// the authorize redirect, checks the echoed CSRF state on the way back, trades
// the authorization code for an identity and enrolls the caller.
//
// The signed Anonymous token doubles as the CSRF state parameter, so the
// handshake needs no server-side nonce store.
package authflow

import (
	"context"
	"fmt"
	"net/url"

	slogctx "github.com/veqryn/slog-context"

	"github.com/cmflairs/gateway/internal/identity"
	"github.com/cmflairs/gateway/internal/refresh"
	"github.com/cmflairs/gateway/internal/serviceerr"
	"github.com/cmflairs/gateway/internal/session"
	"github.com/cmflairs/gateway/internal/user"
)

// Config carries the provider's authorize endpoint and the client parameters
// baked into every redirect.
type Config struct {
	AuthorizeURL string
	ClientID     string
	RedirectURI  string
	// Scope defaults to "identity", the minimal scope the callback needs.
	Scope string
	// Duration defaults to "temporary"; the provider tokens are consumed
	// within the handshake and never stored.
	Duration string
}

func (c Config) withDefaults() Config {
	if c.Scope == "" {
		c.Scope = "identity"
	}
	if c.Duration == "" {
		c.Duration = "temporary"
	}

	return c
}

// Flow coordinates the redirect handshake between the session codec, the
// identity provider and the user directory.
type Flow struct {
	cfg      Config
	codec    *session.Codec
	provider identity.Exchanger
	users    user.Directory
	tasks    refresh.Enqueuer
}

func New(cfg Config, codec *session.Codec, provider identity.Exchanger, users user.Directory, tasks refresh.Enqueuer) *Flow {
	return &Flow{
		cfg:      cfg.withDefaults(),
		codec:    codec,
		provider: provider,
		users:    users,
		tasks:    tasks,
	}
}

// Begin issues a fresh Anonymous token and returns it together with the
// provider authorize URL carrying it as the state parameter.
func (f *Flow) Begin(_ context.Context) (token, redirect string, err error) {
	token, err = f.codec.Sign(session.Anonymous())
	if err != nil {
		return "", "", fmt.Errorf("issuing anonymous token: %w", err)
	}

	return token, f.BuildAuthorizeURL(token), nil
}

// BuildAuthorizeURL parameterizes the provider's authorize endpoint with the
// fixed client settings and the given CSRF state.
func (f *Flow) BuildAuthorizeURL(csrfState string) string {
	query := url.Values{
		"response_type": {"code"},
		"client_id":     {f.cfg.ClientID},
		"redirect_uri":  {f.cfg.RedirectURI},
		"scope":         {f.cfg.Scope},
		"duration":      {f.cfg.Duration},
		"state":         {csrfState},
	}

	return f.cfg.AuthorizeURL + "?" + query.Encode()
}

// HandleCallback completes the handshake the provider redirected back from:
// it checks the echoed state against the codec, exchanges the code for the
// caller's identity, resolves the internal user and issues a Transition
// token. Nothing is issued before every step succeeds.
func (f *Flow) HandleCallback(ctx context.Context, code, echoedState string) (string, error) {
	if code == "" || echoedState == "" {
		return "", serviceerr.ErrMissingCredentials
	}

	state, err := f.codec.Verify(echoedState)
	if err != nil {
		return "", fmt.Errorf("verifying csrf state: %w", err)
	}

	if state.Kind() != session.KindAnonymous {
		return "", serviceerr.ErrMissingCredentials
	}

	tokens, err := f.provider.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchanging authorization code: %w", err)
	}

	ident, err := f.provider.Me(ctx, tokens.AccessToken)
	if err != nil {
		return "", fmt.Errorf("fetching identity: %w", err)
	}

	// The display name becomes the durable handle; accounts that can still
	// change it are not enrollable yet.
	if ident.NameIsMutable {
		return "", serviceerr.TokenCreation("account not finalized")
	}

	userID, created, err := f.users.CreateOrGet(ctx, ident.ID, ident.DisplayName)
	if err != nil {
		return "", fmt.Errorf("resolving user for identity %s: %w", ident.ID, err)
	}

	if created {
		// Sign-in already succeeded at this point; a refresh that cannot be
		// queued is re-attempted by the bulk sweep, not worth failing for.
		if err := f.tasks.Enqueue(ctx, refresh.Task{Kind: refresh.TaskUserRefresh, UserID: userID}); err != nil {
			slogctx.Error(ctx, "Failed to enqueue first sign-in refresh", "user_id", userID, "error", err)
		}
	}

	transition, err := f.codec.Sign(session.Transition(userID))
	if err != nil {
		return "", fmt.Errorf("issuing transition token: %w", err)
	}

	return transition, nil
}
