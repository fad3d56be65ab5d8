package ports

import (
	"context"
	"time"
)

// PlayerResult is one seat's final line in a finished game.
type PlayerResult struct {
	UserID string `json:"user_id"`
	Seat   int    `json:"seat"`
	Score  int    `json:"score"`
	Bonus  int    `json:"bonus"`
	Winner bool   `json:"winner"`
}

// GameResult summarises a finished game for persistence.
type GameResult struct {
	GameID  string         `json:"game_id"`
	MatchID string         `json:"match_id"`
	Rounds  int            `json:"rounds"`
	EndedAt time.Time      `json:"ended_at"`
	Players []PlayerResult `json:"players"`
}

// ResultPort stores finished games.
type ResultPort interface {
	// SaveResult records result for every human player in it.
	SaveResult(ctx context.Context, result GameResult) error
}
