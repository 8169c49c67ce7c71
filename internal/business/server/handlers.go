package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/cmflairs/gateway/internal/authflow"
	"github.com/cmflairs/gateway/internal/gamestats"
	"github.com/cmflairs/gateway/internal/refresh"
	"github.com/cmflairs/gateway/internal/serviceerr"
	"github.com/cmflairs/gateway/internal/session"
	"github.com/cmflairs/gateway/internal/summoner"
	"github.com/cmflairs/gateway/internal/user"
)

// API bundles the handlers of the public HTTP surface.
type API struct {
	flow      *authflow.Flow
	codec     *session.Codec
	users     user.Directory
	summoners summoner.Repository
	tasks     refresh.Enqueuer
}

func NewAPI(flow *authflow.Flow, codec *session.Codec, users user.Directory, summoners summoner.Repository, tasks refresh.Enqueuer) *API {
	return &API{
		flow:      flow,
		codec:     codec,
		users:     users,
		summoners: summoners,
		tasks:     tasks,
	}
}

// errorModel is the JSON body every failure renders to.
type errorModel struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// tokenModel carries an issued token to the caller. The token itself stays a
// single opaque string.
type tokenModel struct {
	Token string `json:"token"`
}

type summonerModel struct {
	ID          int64                  `json:"id"`
	GameName    string                 `json:"game_name"`
	TagLine     string                 `json:"tag_line"`
	Platform    string                 `json:"platform"`
	ChampScores []gamestats.ChampScore `json:"champ_scores,omitempty"`
	LastUpdate  *time.Time             `json:"last_update,omitempty"`
}

type profileModel struct {
	ID          int64           `json:"id"`
	DisplayName string          `json:"display_name"`
	CreatedAt   time.Time       `json:"created_at"`
	Summoners   []summonerModel `json:"summoners"`
}

const bearerPrefix = "Bearer "

// bearerToken extracts the bearer credential from the request. An absent or
// malformed Authorization header is indistinguishable from a malformed token.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", serviceerr.ErrInvalidToken
	}

	return strings.TrimPrefix(header, bearerPrefix), nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *serviceerr.Error
	if !errors.As(err, &svcErr) {
		svcErr = serviceerr.ErrUnknown
	}

	slogctx.Error(r.Context(), "Request failed", "error", err, "status", svcErr.HTTPStatus())
	writeJSON(w, svcErr.HTTPStatus(), errorModel{
		Error:            string(svcErr.Err),
		ErrorDescription: svcErr.Description,
	})
}

// handleSignIn starts the provider handshake: the caller is redirected to the
// authorize endpoint with a fresh pre-session token as the state parameter.
func (a *API) handleSignIn(w http.ResponseWriter, r *http.Request) {
	_, redirect, err := a.flow.Begin(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.Redirect(w, r, redirect, http.StatusFound)
}

// handleCallback completes the handshake the provider redirected back from.
func (a *API) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	token, err := a.flow.HandleCallback(r.Context(), query.Get("code"), query.Get("state"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenModel{Token: token})
}

// handleUpgrade trades a valid transition token for a signed-in token.
func (a *API) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	bearer, err := bearerToken(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := a.codec.Upgrade(bearer)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenModel{Token: token})
}

// handleMe returns the caller's profile with the linked game accounts.
func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	bearer, err := bearerToken(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	state, err := a.codec.RequireSignedIn(bearer)
	if err != nil {
		writeError(w, r, err)
		return
	}

	u, err := a.users.Get(r.Context(), state.UserID())
	if err != nil {
		writeError(w, r, err)
		return
	}

	accounts, err := a.summoners.ListByUser(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	profile := profileModel{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
		Summoners:   make([]summonerModel, 0, len(accounts)),
	}
	for _, s := range accounts {
		profile.Summoners = append(profile.Summoners, summonerModel{
			ID:          s.ID,
			GameName:    s.GameName,
			TagLine:     s.TagLine,
			Platform:    s.Platform,
			ChampScores: s.ChampScores,
			LastUpdate:  s.LastUpdate,
		})
	}

	writeJSON(w, http.StatusOK, profile)
}

// handleRefresh queues a refresh of the caller's game accounts.
func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	bearer, err := bearerToken(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	state, err := a.codec.RequireSignedIn(bearer)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := a.tasks.Enqueue(r.Context(), refresh.Task{Kind: refresh.TaskUserRefresh, UserID: state.UserID()}); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
