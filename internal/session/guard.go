package session

import (
	"fmt"

	"github.com/cmflairs/gateway/internal/serviceerr"
)

// Guards are the explicit, typed checks protected operations compose. Each
// takes the raw bearer string and returns the required variant or a typed
// error; no endpoint inspects the state tag ad hoc.

// RequireAnonymous verifies the bearer and requires the Anonymous variant.
func (c *Codec) RequireAnonymous(bearer string) (State, error) {
	return c.require(bearer, KindAnonymous)
}

// RequireTransition verifies the bearer and requires the Transition variant.
func (c *Codec) RequireTransition(bearer string) (State, error) {
	return c.require(bearer, KindTransition)
}

// RequireSignedIn verifies the bearer and requires the SignedIn variant.
func (c *Codec) RequireSignedIn(bearer string) (State, error) {
	return c.require(bearer, KindSignedIn)
}

func (c *Codec) require(bearer string, kind Kind) (State, error) {
	state, err := c.Verify(bearer)
	if err != nil {
		return State{}, err
	}

	if state.kind != kind {
		return State{}, serviceerr.Unauthorized("wrong session state")
	}

	return state, nil
}

// Upgrade consumes a valid Transition token and issues a SignedIn token for
// the same user. Identity is not re-verified here, only the previously issued
// proof of it.
func (c *Codec) Upgrade(transitionBearer string) (string, error) {
	state, err := c.RequireTransition(transitionBearer)
	if err != nil {
		return "", err
	}

	signedIn, err := c.Sign(SignedIn(state.userID))
	if err != nil {
		return "", fmt.Errorf("issuing signed-in token: %w", err)
	}

	return signedIn, nil
}
