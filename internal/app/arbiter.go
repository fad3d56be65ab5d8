package app

import (
	"context"
	"fmt"

	"azool/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Arbiter is the only owner of the shared supply. Players reach it through a
// single inbox; it answers each player on that player's outbox.
type Arbiter struct {
	logger     runtime.Logger
	supply     *domain.Supply
	numPlayers int

	inbox    chan Request
	outboxes []chan Message
	sink     func(Event)

	round   int
	current int
}

// NewArbiter prepares a full bag for numPlayers. Nothing is dealt until Run.
func NewArbiter(numPlayers, mailboxSize int, shuffle domain.Shuffler, logger runtime.Logger) *Arbiter {
	if mailboxSize <= 0 {
		mailboxSize = DefaultMailboxSize
	}
	a := &Arbiter{
		logger:     logger,
		supply:     domain.NewSupply(numPlayers, shuffle),
		numPlayers: numPlayers,
		inbox:      make(chan Request, mailboxSize*numPlayers),
		outboxes:   make([]chan Message, numPlayers),
	}
	for i := range a.outboxes {
		a.outboxes[i] = make(chan Message, mailboxSize)
	}
	return a
}

// Inbox is where every player sends requests.
func (a *Arbiter) Inbox() chan<- Request { return a.inbox }

// Outbox is the mailbox of one player.
func (a *Arbiter) Outbox(player int) <-chan Message { return a.outboxes[player] }

// OnEvent installs an observer. It is called from the arbiter goroutine and
// must not block.
func (a *Arbiter) OnEvent(fn func(Event)) { a.sink = fn }

// Round is the number of the round being played, starting at 1.
func (a *Arbiter) Round() int { return a.round }

// TileTotal counts the tiles the supply holds. Only call it while Run is not
// executing.
func (a *Arbiter) TileTotal() int { return a.supply.TileTotal() }

func (a *Arbiter) publish(kind EventKind, payload any, recipients ...int) {
	if a.sink == nil {
		return
	}
	a.sink(Event{Kind: kind, Payload: payload, Recipients: recipients})
}

func (a *Arbiter) validPlayer(p int) bool {
	return p >= 0 && p < a.numPlayers
}

// Handle processes one request against the supply and returns the reply for
// its sender. ReturnToBag has no reply. A malformed request returns an error
// wrapping ErrBadRequest and leaves the supply untouched.
func (a *Arbiter) Handle(req Request) (Message, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrBadRequest)
	}
	if !a.validPlayer(req.From()) {
		return nil, fmt.Errorf("%w: unknown player %d", ErrBadRequest, req.From())
	}

	switch r := req.(type) {
	case GetBoard:
		return snapshotFor(r.Player, a.supply.Snapshot()), nil

	case DrawFromFactory:
		n, err := a.supply.DrawFromDisplay(r.Display, r.Color)
		return a.takeReply(r.Player, r.Kind(), r.Display, r.Color, n, false, err), nil

	case DiscardFromFactory:
		n, err := a.supply.DrawFromDisplay(r.Display, r.Color)
		return a.takeReply(r.Player, r.Kind(), r.Display, r.Color, n, false, err), nil

	case DrawFromPool:
		n, penalty, err := a.supply.DrawFromPool(r.Color)
		return a.takeReply(r.Player, r.Kind(), -1, r.Color, n, penalty, err), nil

	case DiscardFromPool:
		n, penalty, err := a.supply.DrawFromPool(r.Color)
		return a.takeReply(r.Player, r.Kind(), -1, r.Color, n, penalty, err), nil

	case ReturnToBag:
		if err := a.supply.ReturnToBag(r.Color, r.Count); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: %s is not served here", ErrBadRequest, req.Kind())
	}
}

func (a *Arbiter) takeReply(player int, kind RequestKind, display int, color domain.Color, n int, penalty bool, err error) DrawReply {
	if err != nil {
		a.logger.Debug("arbiter: player %d %s rejected: %v", player, kind, err)
		return DrawReply{Player: player, For: kind, Err: err}
	}
	a.publish(EventTilesTaken, TilesTakenPayload{
		Player:      player,
		Request:     kind,
		Display:     display,
		Color:       color,
		Count:       n,
		PoolPenalty: penalty,
	})
	return DrawReply{Player: player, For: kind, Success: true, Count: n, PoolPenalty: penalty}
}

func isTake(req Request) bool {
	switch req.(type) {
	case DrawFromFactory, DrawFromPool, DiscardFromFactory, DiscardFromPool:
		return true
	}
	return false
}

// Run plays rounds until a board completes a wall row, then collects the
// final scores. It returns early only when ctx ends.
func (a *Arbiter) Run(ctx context.Context) (Standings, error) {
	for {
		a.round++
		a.supply.Deal()
		if a.supply.NumDisplays() == 0 {
			a.logger.Warn("arbiter: bag empty at round %d, ending game", a.round)
			return a.finishGame(ctx)
		}
		snap := a.supply.Snapshot()
		a.publish(EventRoundDealt, RoundDealtPayload{Round: a.round, Displays: snap.Displays, BagSize: snap.BagSize})
		a.logger.Info("arbiter: round %d dealt %d displays, bag %d", a.round, len(snap.Displays), snap.BagSize)

		for !a.supply.IsRoundOver() {
			if err := a.playTurn(ctx, a.current); err != nil {
				return nil, err
			}
			a.current = (a.current + 1) % a.numPlayers
		}

		completed, starter, err := a.resolveRound(ctx)
		if err != nil {
			return nil, err
		}
		a.supply.ResetRound()
		if starter >= 0 {
			a.current = starter
		}

		if completed {
			return a.finishGame(ctx)
		}
	}
}

func (a *Arbiter) send(ctx context.Context, msg Message) error {
	select {
	case a.outboxes[msg.To()] <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Arbiter) receive(ctx context.Context) (Request, error) {
	select {
	case req := <-a.inbox:
		return req, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// serve answers a request outside of turn control. Failures go back to the
// sender as an ErrorReply.
func (a *Arbiter) serve(ctx context.Context, req Request) error {
	reply, err := a.Handle(req)
	if err != nil {
		a.logger.Warn("arbiter: %v", err)
		if req == nil || !a.validPlayer(req.From()) {
			return nil
		}
		return a.send(ctx, ErrorReply{Player: req.From(), For: req.Kind(), Err: err})
	}
	if reply == nil {
		return nil
	}
	return a.send(ctx, reply)
}

func (a *Arbiter) playTurn(ctx context.Context, player int) error {
	if err := a.send(ctx, BeginTurn{Player: player, Round: a.round}); err != nil {
		return err
	}
	a.publish(EventTurnBegan, TurnBeganPayload{Round: a.round, Player: player})

	for {
		req, err := a.receive(ctx)
		if err != nil {
			return err
		}
		switch r := req.(type) {
		case TurnFinished:
			if r.Player == player {
				return nil
			}
			a.logger.Warn("arbiter: player %d finished a turn it does not hold", r.Player)
		case RoundScored, FinalScore:
			a.logger.Warn("arbiter: unexpected %s from player %d during play", r.Kind(), r.From())
		default:
			if req != nil && isTake(req) && req.From() != player {
				a.logger.Warn("arbiter: dropped %s from player %d: %v", req.Kind(), req.From(), ErrNotYourTurn)
				continue
			}
			if err := a.serve(ctx, req); err != nil {
				return err
			}
		}
	}
}

// resolveRound asks every board to score. It reports whether any of them
// completed a wall row and which player took the marker, or -1.
func (a *Arbiter) resolveRound(ctx context.Context) (completed bool, starter int, err error) {
	for p := 0; p < a.numPlayers; p++ {
		if err := a.send(ctx, EndOfRound{Player: p, Round: a.round}); err != nil {
			return false, -1, err
		}
	}

	starter = -1
	scored := make([]bool, a.numPlayers)
	for pending := a.numPlayers; pending > 0; {
		req, err := a.receive(ctx)
		if err != nil {
			return false, -1, err
		}
		switch r := req.(type) {
		case RoundScored:
			if !a.validPlayer(r.Player) || scored[r.Player] {
				a.logger.Warn("arbiter: ignoring round score from player %d", r.Player)
				continue
			}
			scored[r.Player] = true
			pending--
			completed = completed || r.Result.CompletedRow
			if r.Result.TookMarker {
				starter = r.Player
			}
			a.publish(EventRoundScored, RoundScoredPayload{Round: a.round, Player: r.Player, Result: r.Result, Score: r.Score})
		case ReturnToBag, GetBoard:
			if err := a.serve(ctx, r); err != nil {
				return false, -1, err
			}
		default:
			if req != nil {
				a.logger.Warn("arbiter: dropped %s from player %d while scoring", req.Kind(), req.From())
			}
		}
	}
	return completed, starter, nil
}

func (a *Arbiter) finishGame(ctx context.Context) (Standings, error) {
	for p := 0; p < a.numPlayers; p++ {
		if err := a.send(ctx, GameOver{Player: p}); err != nil {
			return nil, err
		}
	}

	standings := make(Standings, a.numPlayers)
	got := make([]bool, a.numPlayers)
	for pending := a.numPlayers; pending > 0; {
		req, err := a.receive(ctx)
		if err != nil {
			return nil, err
		}
		r, ok := req.(FinalScore)
		if !ok {
			if req != nil {
				a.logger.Debug("arbiter: ignoring %s after game over", req.Kind())
			}
			continue
		}
		if !a.validPlayer(r.Player) || got[r.Player] {
			continue
		}
		got[r.Player] = true
		pending--
		standings[r.Player] = Standing{Player: r.Player, Score: r.Score, Bonus: r.Bonus, Wall: r.Wall}
	}

	a.publish(EventGameEnded, GameEndedPayload{Standings: standings})
	a.logger.Info("arbiter: game over after %d rounds, winners %v", a.round, standings.Winners())
	return standings, nil
}
