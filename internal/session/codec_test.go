package session_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmflairs/gateway/internal/serviceerr"
	"github.com/cmflairs/gateway/internal/session"
)

const testSigningKey = "0123456789abcdef0123456789abcdef" // NOSONAR

func newTestCodec(t *testing.T, ttls session.TTLs) *session.Codec {
	t.Helper()

	codec, err := session.NewCodec([]byte(testSigningKey), ttls)
	require.NoError(t, err)

	return codec
}

func TestNewCodec_KeyLength(t *testing.T) {
	tests := []struct {
		name      string
		key       []byte
		errAssert assert.ErrorAssertionFunc
	}{
		{name: "32 byte key", key: []byte(testSigningKey), errAssert: assert.NoError},
		{name: "longer key", key: []byte(testSigningKey + testSigningKey), errAssert: assert.NoError},
		{name: "31 byte key", key: []byte(testSigningKey[:31]), errAssert: assert.Error},
		{name: "empty key", key: nil, errAssert: assert.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := session.NewCodec(tt.key, session.TTLs{})
			tt.errAssert(t, err)
		})
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t, session.TTLs{})

	tests := []struct {
		name  string
		state session.State
	}{
		{name: "Anonymous", state: session.Anonymous()},
		{name: "Transition", state: session.Transition(42)},
		{name: "SignedIn", state: session.SignedIn(42)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := codec.Sign(tt.state)
			require.NoError(t, err)

			got, err := codec.Verify(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.state, got)
		})
	}
}

func TestCodec_AnonymousSurvivesRedirectWindow(t *testing.T) {
	// Scenario: issue an Anonymous token with the default 24h TTL and verify
	// it immediately.
	codec := newTestCodec(t, session.TTLs{})

	raw, err := codec.Sign(session.Anonymous())
	require.NoError(t, err)

	state, err := codec.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, session.KindAnonymous, state.Kind())
}

func TestCodec_Expiry(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		state     session.State
		ttls      session.TTLs
		verifyAt  time.Time
		errAssert assert.ErrorAssertionFunc
		wantCode  serviceerr.Code
	}{
		{
			name:      "transition token within 60s window",
			state:     session.Transition(7),
			ttls:      session.TTLs{Transition: time.Minute},
			verifyAt:  issued.Add(59 * time.Second),
			errAssert: assert.NoError,
		},
		{
			name:      "transition token 61s after issuance",
			state:     session.Transition(7),
			ttls:      session.TTLs{Transition: time.Minute},
			verifyAt:  issued.Add(61 * time.Second),
			errAssert: assert.Error,
			wantCode:  serviceerr.CodeUnauthorized,
		},
		{
			name:      "signed-in token past its TTL",
			state:     session.SignedIn(7),
			ttls:      session.TTLs{SignedIn: time.Hour},
			verifyAt:  issued.Add(2 * time.Hour),
			errAssert: assert.Error,
			wantCode:  serviceerr.CodeUnauthorized,
		},
		{
			name:      "token before its not-before window",
			state:     session.Anonymous(),
			ttls:      session.TTLs{},
			verifyAt:  issued.Add(-time.Minute),
			errAssert: assert.Error,
			wantCode:  serviceerr.CodeUnauthorized,
		},
		{
			name:      "clock skew within the not-before buffer",
			state:     session.Anonymous(),
			ttls:      session.TTLs{},
			verifyAt:  issued.Add(-5 * time.Second),
			errAssert: assert.NoError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec := newTestCodec(t, tt.ttls)
			codec.SetNow(func() time.Time { return issued })

			raw, err := codec.Sign(tt.state)
			require.NoError(t, err)

			codec.SetNow(func() time.Time { return tt.verifyAt })

			_, err = codec.Verify(raw)
			tt.errAssert(t, err)

			if tt.wantCode != "" {
				var serviceErr *serviceerr.Error
				require.ErrorAs(t, err, &serviceErr)
				assert.Equal(t, tt.wantCode, serviceErr.Err)
				assert.Equal(t, "expired", serviceErr.Description)
			}
		})
	}
}

func TestCodec_TamperDetection(t *testing.T) {
	codec := newTestCodec(t, session.TTLs{})

	raw, err := codec.Sign(session.SignedIn(42))
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)

	flip := func(s string, i int) string {
		b := []byte(s)
		b[i] ^= 0x01

		return string(b)
	}

	t.Run("flip payload bytes", func(t *testing.T) {
		for i := range parts[1] {
			tampered := parts[0] + "." + flip(parts[1], i) + "." + parts[2]
			_, err := codec.Verify(tampered)
			assert.ErrorIs(t, err, serviceerr.ErrInvalidToken, "payload byte %d", i)
		}
	})

	t.Run("flip signature bytes", func(t *testing.T) {
		for i := range parts[2] {
			tampered := parts[0] + "." + parts[1] + "." + flip(parts[2], i)
			_, err := codec.Verify(tampered)
			assert.ErrorIs(t, err, serviceerr.ErrInvalidToken, "signature byte %d", i)
		}
	})

	t.Run("garbage input", func(t *testing.T) {
		for _, input := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
			_, err := codec.Verify(input)
			assert.ErrorIs(t, err, serviceerr.ErrInvalidToken)
		}
	})
}

func TestCodec_WrongKeyRejected(t *testing.T) {
	codec := newTestCodec(t, session.TTLs{})

	other, err := session.NewCodec([]byte("ffffffffffffffffffffffffffffffff"), session.TTLs{})
	require.NoError(t, err)

	raw, err := other.Sign(session.SignedIn(42))
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	assert.ErrorIs(t, err, serviceerr.ErrInvalidToken)
}

func TestCodec_NonceUniqueness(t *testing.T) {
	codec := newTestCodec(t, session.TTLs{})

	first, err := codec.Sign(session.Anonymous())
	require.NoError(t, err)

	second, err := codec.Sign(session.Anonymous())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
