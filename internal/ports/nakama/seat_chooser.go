package nakama

import (
	"context"
	"errors"
	"time"

	"azool/internal/app"
)

var errNoForfeitMove = errors.New("no move available to forfeit")

// seatChooser relays turn prompts to a connected client and waits for the
// move it sends back through MatchLoop.
type seatChooser struct {
	player  int
	out     *outbox
	moves   chan app.Move
	timeout time.Duration
}

func newSeatChooser(player int, out *outbox, timeout time.Duration) *seatChooser {
	return &seatChooser{
		player:  player,
		out:     out,
		moves:   make(chan app.Move, 1),
		timeout: timeout,
	}
}

// offer hands a client move to the waiting game goroutine. It reports false
// when a move is already queued.
func (c *seatChooser) offer(mv app.Move) bool {
	select {
	case c.moves <- mv:
		return true
	default:
		return false
	}
}

func (c *seatChooser) Choose(ctx context.Context, view app.TurnView) (app.Move, error) {
	// moves sent before this prompt belong to an earlier turn
	select {
	case <-c.moves:
	default:
	}
	c.out.push(frame{op: OpYourTurn, body: turnViewEnvelope(view), players: []int{c.player}})

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()
	select {
	case mv := <-c.moves:
		return mv, nil
	case <-timer.C:
		return forfeitMove(view)
	case <-ctx.Done():
		return app.Move{}, ctx.Err()
	}
}

// forfeitMove is played when a client lets its turn clock run out: the first
// available discard.
func forfeitMove(view app.TurnView) (app.Move, error) {
	for _, mv := range view.LegalMoves() {
		if !mv.IsDraw() {
			return mv, nil
		}
	}
	return app.Move{}, errNoForfeitMove
}
