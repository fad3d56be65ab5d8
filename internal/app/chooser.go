package app

import (
	"context"

	"azool/internal/domain"
)

// Move is one decision a player makes on its turn.
type Move struct {
	Action  RequestKind
	Display int // ignored for pool actions
	Color   domain.Color
	Row     int // ignored for discards
}

// IsDraw reports whether the move places tiles on a pattern line.
func (m Move) IsDraw() bool {
	return m.Action == KindDrawFromFactory || m.Action == KindDrawFromPool
}

func (m Move) request(player int) (Request, bool) {
	switch m.Action {
	case KindDrawFromFactory:
		return DrawFromFactory{Player: player, Display: m.Display, Color: m.Color}, true
	case KindDrawFromPool:
		return DrawFromPool{Player: player, Color: m.Color}, true
	case KindDiscardFromFactory:
		return DiscardFromFactory{Player: player, Display: m.Display, Color: m.Color}, true
	case KindDiscardFromPool:
		return DiscardFromPool{Player: player, Color: m.Color}, true
	}
	return nil, false
}

// moveFor is the inverse of Move.request. Row is left for the caller.
func moveFor(req Request) (Move, bool) {
	switch r := req.(type) {
	case DrawFromFactory:
		return Move{Action: KindDrawFromFactory, Display: r.Display, Color: r.Color}, true
	case DrawFromPool:
		return Move{Action: KindDrawFromPool, Display: -1, Color: r.Color}, true
	case DiscardFromFactory:
		return Move{Action: KindDiscardFromFactory, Display: r.Display, Color: r.Color}, true
	case DiscardFromPool:
		return Move{Action: KindDiscardFromPool, Display: -1, Color: r.Color}, true
	}
	return Move{}, false
}

// TurnView is everything a chooser sees when asked for a move.
type TurnView struct {
	Player    int
	Round     int
	Snapshot  BoardSnapshot
	Lines     [domain.WallSize]domain.PatternLine
	Wall      domain.Wall
	Score     int
	Penalties int
	// Rejected is the reason the previous move of this turn was refused.
	Rejected error
}

// CanPlace mirrors Board.CheckValidPlacement for the copied board state.
func (v TurnView) CanPlace(color domain.Color, row int) bool {
	if !color.Valid() || row < 0 || row >= domain.WallSize {
		return false
	}
	if v.Wall.Has(row, color) {
		return false
	}
	lc, ok := v.Lines[row].Color()
	return !ok || lc == color
}

// LegalMoves lists every move the arbiter and board would accept, draws
// before discards.
func (v TurnView) LegalMoves() []Move {
	var draws, discards []Move
	for i, d := range v.Snapshot.Displays {
		for _, c := range d.Colors() {
			for row := 0; row < domain.WallSize; row++ {
				if v.CanPlace(c, row) {
					draws = append(draws, Move{Action: KindDrawFromFactory, Display: i, Color: c, Row: row})
				}
			}
			discards = append(discards, Move{Action: KindDiscardFromFactory, Display: i, Color: c})
		}
	}
	for _, c := range v.Snapshot.Pool.Colors() {
		for row := 0; row < domain.WallSize; row++ {
			if v.CanPlace(c, row) {
				draws = append(draws, Move{Action: KindDrawFromPool, Color: c, Row: row})
			}
		}
		discards = append(discards, Move{Action: KindDiscardFromPool, Color: c})
	}
	return append(draws, discards...)
}

// Chooser supplies moves for a player actor. Prompting, remote clients and
// scripted tests all sit behind it.
type Chooser interface {
	Choose(ctx context.Context, view TurnView) (Move, error)
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(ctx context.Context, view TurnView) (Move, error)

func (f ChooserFunc) Choose(ctx context.Context, view TurnView) (Move, error) {
	return f(ctx, view)
}
