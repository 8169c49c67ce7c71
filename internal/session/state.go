// Package session implements the stateless session model: the legal session
// states, the signed bearer token codec producing and verifying them, and the
// typed guards protected endpoints compose.
//
// Trust flows one way: a State decoded from a caller-supplied token exists
// only because Codec.Verify checked the signature and the validity window.
package session

import "fmt"

// Kind tags the session state variant carried by a token.
type Kind int

const (
	// KindAnonymous is the pre-authentication placeholder. The signed
	// Anonymous token doubles as the CSRF nonce for the provider handshake.
	KindAnonymous Kind = iota
	// KindTransition proves that a provider handshake succeeded for a user,
	// valid only for the single upgrade round trip.
	KindTransition
	// KindSignedIn is the fully authenticated session. Terminal: there is no
	// transition back, a caller re-identifies by starting over at Anonymous.
	KindSignedIn
)

func (k Kind) String() string {
	switch k {
	case KindAnonymous:
		return "anonymous"
	case KindTransition:
		return "transition"
	case KindSignedIn:
		return "signed_in"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// State is one of exactly three session states. The zero value is Anonymous.
// User ids ride only on the Transition and SignedIn variants.
type State struct {
	kind   Kind
	userID int64
}

// Anonymous returns the pre-authentication state.
func Anonymous() State {
	return State{kind: KindAnonymous}
}

// Transition returns the post-handshake state for the given user.
func Transition(userID int64) State {
	return State{kind: KindTransition, userID: userID}
}

// SignedIn returns the authenticated state for the given user.
func SignedIn(userID int64) State {
	return State{kind: KindSignedIn, userID: userID}
}

// Kind reports the variant.
func (s State) Kind() Kind {
	return s.kind
}

// UserID reports the user carried by a Transition or SignedIn state, zero for
// Anonymous.
func (s State) UserID() int64 {
	return s.userID
}
