package app

import (
	"context"
	"fmt"

	"azool/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// PlayerActor owns one board. It only touches shared state by sending
// requests to the arbiter.
type PlayerActor struct {
	id      int
	logger  runtime.Logger
	board   *domain.Board
	inbox   <-chan Message
	arbiter chan<- Request
	chooser Chooser
	round   int
}

func NewPlayerActor(id int, inbox <-chan Message, arbiter chan<- Request, chooser Chooser, logger runtime.Logger) *PlayerActor {
	return &PlayerActor{
		id:      id,
		logger:  logger,
		board:   domain.NewBoard(),
		inbox:   inbox,
		arbiter: arbiter,
		chooser: chooser,
	}
}

func (p *PlayerActor) ID() int { return p.id }

// Board exposes the board once Run has returned.
func (p *PlayerActor) Board() *domain.Board { return p.board }

// Run serves arbiter messages until GameOver and returns this player's
// final standing.
func (p *PlayerActor) Run(ctx context.Context) (Standing, error) {
	for {
		msg, err := p.receive(ctx)
		if err != nil {
			return Standing{}, err
		}
		switch m := msg.(type) {
		case BeginTurn:
			p.round = m.Round
			if err := p.takeTurn(ctx); err != nil {
				return Standing{}, err
			}
		case EndOfRound:
			if err := p.endRound(ctx, m.Round); err != nil {
				return Standing{}, err
			}
		case GameOver:
			bonus := p.board.Finalize()
			st := Standing{Player: p.id, Score: p.board.Score(), Bonus: bonus, Wall: p.board.Wall()}
			if err := p.send(ctx, FinalScore{Player: p.id, Bonus: bonus, Score: st.Score, Wall: st.Wall}); err != nil {
				return Standing{}, err
			}
			return st, nil
		default:
			p.logger.Warn("player %d: ignoring %s outside a turn", p.id, msg.Kind())
		}
	}
}

func (p *PlayerActor) send(ctx context.Context, req Request) error {
	select {
	case p.arbiter <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// receive skips anything addressed to another player.
func (p *PlayerActor) receive(ctx context.Context) (Message, error) {
	for {
		select {
		case msg, ok := <-p.inbox:
			if !ok {
				return nil, fmt.Errorf("%w: player %d mailbox closed", ErrProtocol, p.id)
			}
			if msg == nil || msg.To() != p.id {
				p.logger.Warn("player %d: dropped misaddressed message", p.id)
				continue
			}
			return msg, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (p *PlayerActor) returnTiles(ctx context.Context, color domain.Color, count int) error {
	if count <= 0 {
		return nil
	}
	return p.send(ctx, ReturnToBag{Player: p.id, Color: color, Count: count})
}

func (p *PlayerActor) view(snap BoardSnapshot, rejected error) TurnView {
	v := TurnView{
		Player:    p.id,
		Round:     p.round,
		Snapshot:  snap,
		Wall:      p.board.Wall(),
		Score:     p.board.Score(),
		Penalties: p.board.Penalties(),
		Rejected:  rejected,
	}
	for row := range v.Lines {
		v.Lines[row] = p.board.Line(row)
	}
	return v
}

// takeTurn asks the chooser until one move is accepted, then hands the turn
// back.
func (p *PlayerActor) takeTurn(ctx context.Context) error {
	var rejected error
	for {
		snap, err := p.requestBoard(ctx)
		if err != nil {
			return err
		}
		if snap.RoundOver {
			break
		}
		mv, err := p.chooser.Choose(ctx, p.view(snap, rejected))
		if err != nil {
			return fmt.Errorf("player %d: choose: %w", p.id, err)
		}
		rejected, err = p.apply(ctx, mv)
		if err != nil {
			return err
		}
		if rejected == nil {
			break
		}
		p.logger.Debug("player %d: move rejected: %v", p.id, rejected)
	}
	return p.send(ctx, TurnFinished{Player: p.id})
}

func (p *PlayerActor) requestBoard(ctx context.Context) (BoardSnapshot, error) {
	if err := p.send(ctx, GetBoard{Player: p.id}); err != nil {
		return BoardSnapshot{}, err
	}
	msg, err := p.receive(ctx)
	if err != nil {
		return BoardSnapshot{}, err
	}
	snap, ok := msg.(BoardSnapshot)
	if !ok {
		return BoardSnapshot{}, fmt.Errorf("%w: player %d wanted %s, got %s", ErrProtocol, p.id, KindGetBoard, msg.Kind())
	}
	return snap, nil
}

// apply performs mv. rejected is non-nil when the move was refused locally or
// by the arbiter; err is reserved for protocol and context failures.
func (p *PlayerActor) apply(ctx context.Context, mv Move) (rejected, err error) {
	req, ok := mv.request(p.id)
	if !ok {
		return fmt.Errorf("%w: unknown action %q", ErrBadRequest, mv.Action), nil
	}
	if mv.IsDraw() {
		valid, err := p.board.CheckValidPlacement(mv.Color, mv.Row)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMoveRejected, err), nil
		}
		if !valid {
			return fmt.Errorf("%w: %s cannot go on row %d", ErrMoveRejected, mv.Color, mv.Row), nil
		}
	}

	if err := p.send(ctx, req); err != nil {
		return nil, err
	}
	reply, err := p.awaitTake(ctx, req.Kind())
	if err != nil {
		return nil, err
	}
	if !reply.Success {
		return fmt.Errorf("%w: %w", ErrMoveRejected, reply.Err), nil
	}

	if mv.IsDraw() {
		overflow := p.board.PlaceTiles(mv.Row, mv.Color, reply.Count)
		if reply.PoolPenalty {
			p.board.MarkPoolPenalty()
		}
		return nil, p.returnTiles(ctx, mv.Color, overflow)
	}

	p.board.AddPenalty(reply.Count)
	if reply.PoolPenalty {
		p.board.MarkPoolPenalty()
	}
	return nil, p.returnTiles(ctx, mv.Color, reply.Count)
}

func (p *PlayerActor) awaitTake(ctx context.Context, kind RequestKind) (DrawReply, error) {
	msg, err := p.receive(ctx)
	if err != nil {
		return DrawReply{}, err
	}
	switch m := msg.(type) {
	case DrawReply:
		if m.For != kind {
			return DrawReply{}, fmt.Errorf("%w: player %d wanted %s reply, got %s", ErrProtocol, p.id, kind, m.For)
		}
		return m, nil
	case ErrorReply:
		if m.For == kind {
			return DrawReply{Player: p.id, For: kind, Err: m.Err}, nil
		}
	}
	return DrawReply{}, fmt.Errorf("%w: player %d wanted %s reply, got %s", ErrProtocol, p.id, kind, msg.Kind())
}

func (p *PlayerActor) endRound(ctx context.Context, round int) error {
	res := p.board.ResolveRoundEnd()
	for _, c := range domain.Colors {
		if err := p.returnTiles(ctx, c, res.Returned[c]); err != nil {
			return err
		}
	}
	p.logger.Debug("player %d: round %d gained %d, penalty %d, score %d", p.id, round, res.Gained, res.Penalty, p.board.Score())
	return p.send(ctx, RoundScored{Player: p.id, Result: res, Score: p.board.Score()})
}
