// Package summoner stores the game accounts linked to enrolled users and the
// statistics fetched for them by the background refresh.
package summoner

import (
	"time"

	"github.com/cmflairs/gateway/internal/gamestats"
)

// Summoner is a linked game account.
type Summoner struct {
	ID     int64
	UserID int64

	// PUUID is the provider's universally unique player id.
	PUUID string
	// GameName and TagLine form the rendered game id (game_name#tag_line).
	GameName string
	TagLine  string
	// Platform routes the statistics fetch, e.g. "na1".
	Platform string

	ChampScores []gamestats.ChampScore
	LastUpdate  *time.Time
}
