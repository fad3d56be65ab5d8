package app

import "azool/internal/domain"

// EventKind identifies events published for observers such as the Nakama match.
type EventKind string

const (
	EventRoundDealt  EventKind = "round_dealt"
	EventTurnBegan   EventKind = "turn_began"
	EventTilesTaken  EventKind = "tiles_taken"
	EventRoundScored EventKind = "round_scored"
	EventGameEnded   EventKind = "game_ended"
)

// Event is an arbiter event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []int // seats; empty means broadcast
}

type RoundDealtPayload struct {
	Round    int
	Displays []domain.TileCounts
	BagSize  int
}

type TurnBeganPayload struct {
	Round  int
	Player int
}

type TilesTakenPayload struct {
	Player      int
	Request     RequestKind
	Display     int // -1 for pool requests
	Color       domain.Color
	Count       int
	PoolPenalty bool
}

type RoundScoredPayload struct {
	Round  int
	Player int
	Result domain.RoundResult
	Score  int
}

type GameEndedPayload struct {
	Standings Standings
}

// Standing is one player's final line.
type Standing struct {
	Player int
	Score  int
	Bonus  int
	Wall   domain.Wall
}

// Standings lists every player in seat order.
type Standings []Standing

// Winners returns the seats sharing the top score.
func (s Standings) Winners() []int {
	best := -1
	var out []int
	for _, st := range s {
		switch {
		case st.Score > best:
			best = st.Score
			out = []int{st.Player}
		case st.Score == best:
			out = append(out, st.Player)
		}
	}
	return out
}
