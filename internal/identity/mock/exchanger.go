// Package identitymock is a canned identity provider for tests.
package identitymock

import (
	"context"

	"github.com/cmflairs/gateway/internal/identity"
	"github.com/cmflairs/gateway/internal/serviceerr"
)

type ExchangerOption func(*Exchanger)

type Exchanger struct {
	tokens     identity.TokenResponse
	identities map[string]identity.Identity

	exchangeErr, meErr error
}

// WithAccessToken sets the token returned for any authorization code.
func WithAccessToken(accessToken string) ExchangerOption {
	return func(e *Exchanger) { e.tokens = identity.TokenResponse{AccessToken: accessToken, TokenType: "bearer"} }
}

// WithIdentity registers the identity served for the given access token.
func WithIdentity(accessToken string, ident identity.Identity) ExchangerOption {
	return func(e *Exchanger) { e.identities[accessToken] = ident }
}

func WithExchangeError(err error) ExchangerOption {
	return func(e *Exchanger) { e.exchangeErr = err }
}

func WithMeError(err error) ExchangerOption {
	return func(e *Exchanger) { e.meErr = err }
}

func NewExchanger(opts ...ExchangerOption) *Exchanger {
	e := &Exchanger{
		identities: make(map[string]identity.Identity),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e
}

var _ identity.Exchanger = (*Exchanger)(nil)

func (e *Exchanger) Exchange(_ context.Context, _ string) (identity.TokenResponse, error) {
	if e.exchangeErr != nil {
		return identity.TokenResponse{}, e.exchangeErr
	}

	return e.tokens, nil
}

func (e *Exchanger) Me(_ context.Context, accessToken string) (identity.Identity, error) {
	if e.meErr != nil {
		return identity.Identity{}, e.meErr
	}

	ident, ok := e.identities[accessToken]
	if !ok {
		return identity.Identity{}, serviceerr.ErrUpstream
	}

	return ident, nil
}
