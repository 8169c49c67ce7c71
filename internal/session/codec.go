package session

import (
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"

	"github.com/cmflairs/gateway/internal/serviceerr"
)

// MinKeyLen is the minimum signing key length. A shorter key is a fatal
// configuration error at startup, never a per-request error.
const MinKeyLen = 32

// notBeforeSkew backdates nbf slightly so that a token signed on one host
// verifies immediately on another with a lagging clock.
const notBeforeSkew = 10 * time.Second

// TTLs holds the per-variant validity windows. Zero fields fall back to the
// defaults: Anonymous must survive the provider redirect round trip,
// Transition covers exactly one upgrade call, SignedIn is a working session.
type TTLs struct {
	Anonymous  time.Duration
	Transition time.Duration
	SignedIn   time.Duration
}

const (
	DefaultAnonymousTTL  = 24 * time.Hour
	DefaultTransitionTTL = time.Minute
	DefaultSignedInTTL   = 12 * time.Hour
)

func (t TTLs) withDefaults() TTLs {
	if t.Anonymous == 0 {
		t.Anonymous = DefaultAnonymousTTL
	}
	if t.Transition == 0 {
		t.Transition = DefaultTransitionTTL
	}
	if t.SignedIn == 0 {
		t.SignedIn = DefaultSignedInTTL
	}

	return t
}

// stateClaims is the session payload embedded next to the registered claims.
type stateClaims struct {
	State  string `json:"st"`
	UserID int64  `json:"uid,omitempty"`
}

// Codec signs and verifies the opaque bearer tokens exchanged with callers.
// It is a pure function of its inputs plus the immutable key and is safe for
// concurrent use without coordination.
type Codec struct {
	signer jose.Signer
	key    []byte
	ttls   TTLs
	now    func() time.Time
}

// NewCodec creates a codec over the process-wide signing key. The key must
// carry at least MinKeyLen bytes of entropy.
func NewCodec(key []byte, ttls TTLs) (*Codec, error) {
	if len(key) < MinKeyLen {
		return nil, fmt.Errorf("signing key must be at least %d bytes, got %d", MinKeyLen, len(key))
	}

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS512, Key: key},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating signer: %w", err)
	}

	return &Codec{
		signer: signer,
		key:    key,
		ttls:   ttls.withDefaults(),
		now:    time.Now,
	}, nil
}

func (c *Codec) ttlFor(kind Kind) time.Duration {
	switch kind {
	case KindAnonymous:
		return c.ttls.Anonymous
	case KindTransition:
		return c.ttls.Transition
	case KindSignedIn:
		return c.ttls.SignedIn
	default:
		return 0
	}
}

// Sign issues a fresh token for the given state. The nonce guarantees that two
// tokens for the same state are never byte-identical. The envelope is never
// patched after issuance, a new state always means a new token.
func (c *Codec) Sign(state State) (string, error) {
	now := c.now()

	claims := jwt.Claims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now.Add(-notBeforeSkew)),
		Expiry:    jwt.NewNumericDate(now.Add(c.ttlFor(state.kind))),
	}
	payload := stateClaims{State: state.kind.String()}
	if state.kind != KindAnonymous {
		payload.UserID = state.userID
	}

	raw, err := jwt.Signed(c.signer).Claims(claims).Claims(payload).Serialize()
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}

	return raw, nil
}

// Verify parses a caller-supplied token, checks the signature and the validity
// window, and returns the embedded state only when both pass. Malformed or
// forged input yields serviceerr.ErrInvalidToken; a genuine token outside its
// window yields an "expired" unauthorized error.
func (c *Codec) Verify(raw string) (State, error) {
	token, err := jwt.ParseSigned(raw, []jose.SignatureAlgorithm{jose.HS512})
	if err != nil {
		return State{}, serviceerr.ErrInvalidToken
	}

	var claims jwt.Claims
	var payload stateClaims
	if err := token.Claims(c.key, &claims, &payload); err != nil {
		return State{}, serviceerr.ErrInvalidToken
	}

	if claims.Expiry == nil || claims.NotBefore == nil {
		return State{}, serviceerr.ErrInvalidToken
	}

	// The window check is deliberately explicit: nbf is backdated by the skew
	// buffer at signing time, so plain before/after comparisons are all that
	// is needed here.
	now := c.now()
	if now.Before(claims.NotBefore.Time()) || now.After(claims.Expiry.Time()) {
		return State{}, serviceerr.Unauthorized("expired")
	}

	switch payload.State {
	case KindAnonymous.String():
		return Anonymous(), nil
	case KindTransition.String():
		return Transition(payload.UserID), nil
	case KindSignedIn.String():
		return SignedIn(payload.UserID), nil
	default:
		return State{}, serviceerr.ErrInvalidToken
	}
}
