package app

import (
	"errors"

	"azool/internal/domain"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrProtocol     = errors.New("protocol violation")
	ErrMoveRejected = errors.New("move rejected")
	ErrNotYourTurn  = errors.New("not your turn")
)

// RequestKind tags every message on the arbiter protocol. The values are the
// wire names clients see.
type RequestKind string

const (
	KindDrawFromFactory    RequestKind = "DRAW_FROM_FACTORY"
	KindDrawFromPool       RequestKind = "DRAW_FROM_POOL"
	KindDiscardFromFactory RequestKind = "DISCARD_FROM_FACTORY"
	KindDiscardFromPool    RequestKind = "DISCARD_FROM_POOL"
	KindReturnToBag        RequestKind = "RETURN_TO_BAG"
	KindGetBoard           RequestKind = "GET_BOARD"
	KindBeginTurn          RequestKind = "TAKE_TURN"
	KindTurnFinished       RequestKind = "TURN_FINISHED"
	KindEndOfRound         RequestKind = "END_OF_ROUND"
	KindRoundScored        RequestKind = "ROUND_SCORED"
	KindGameOver           RequestKind = "GAME_OVER"
	KindFinalScore         RequestKind = "FINAL_SCORE"
	KindError              RequestKind = "ERROR"
)

// Request flows from a player to the arbiter.
type Request interface {
	Kind() RequestKind
	From() int
}

// Message flows from the arbiter to a single player.
type Message interface {
	Kind() RequestKind
	To() int
}

// Player -> arbiter.

type DrawFromFactory struct {
	Player  int
	Display int
	Color   domain.Color
}

type DrawFromPool struct {
	Player int
	Color  domain.Color
}

// DiscardFromFactory takes tiles off a display straight to the penalty count.
type DiscardFromFactory struct {
	Player  int
	Display int
	Color   domain.Color
}

// DiscardFromPool takes tiles out of the pool straight to the penalty count.
type DiscardFromPool struct {
	Player int
	Color  domain.Color
}

// ReturnToBag hands tiles a player no longer holds back to the supply.
type ReturnToBag struct {
	Player int
	Color  domain.Color
	Count  int
}

type GetBoard struct {
	Player int
}

type TurnFinished struct {
	Player int
}

// RoundScored answers EndOfRound once the board has been resolved.
type RoundScored struct {
	Player int
	Result domain.RoundResult
	Score  int
}

// FinalScore answers GameOver.
type FinalScore struct {
	Player int
	Bonus  int
	Score  int
	Wall   domain.Wall
}

func (DrawFromFactory) Kind() RequestKind    { return KindDrawFromFactory }
func (DrawFromPool) Kind() RequestKind       { return KindDrawFromPool }
func (DiscardFromFactory) Kind() RequestKind { return KindDiscardFromFactory }
func (DiscardFromPool) Kind() RequestKind    { return KindDiscardFromPool }
func (ReturnToBag) Kind() RequestKind        { return KindReturnToBag }
func (GetBoard) Kind() RequestKind           { return KindGetBoard }
func (TurnFinished) Kind() RequestKind       { return KindTurnFinished }
func (RoundScored) Kind() RequestKind        { return KindRoundScored }
func (FinalScore) Kind() RequestKind         { return KindFinalScore }

func (r DrawFromFactory) From() int    { return r.Player }
func (r DrawFromPool) From() int       { return r.Player }
func (r DiscardFromFactory) From() int { return r.Player }
func (r DiscardFromPool) From() int    { return r.Player }
func (r ReturnToBag) From() int        { return r.Player }
func (r GetBoard) From() int           { return r.Player }
func (r TurnFinished) From() int       { return r.Player }
func (r RoundScored) From() int        { return r.Player }
func (r FinalScore) From() int         { return r.Player }

// Arbiter -> player.

// BeginTurn grants the turn to Player.
type BeginTurn struct {
	Player int
	Round  int
}

// DrawReply answers the four draw and discard requests. Err is set when
// Success is false.
type DrawReply struct {
	Player      int
	For         RequestKind
	Success     bool
	Count       int
	PoolPenalty bool
	Err         error
}

// BoardSnapshot answers GetBoard. Player echoes the requester.
type BoardSnapshot struct {
	Player    int
	Displays  []domain.TileCounts
	Pool      domain.TileCounts
	Marker    bool
	RoundOver bool
}

type EndOfRound struct {
	Player int
	Round  int
}

type GameOver struct {
	Player int
}

// ErrorReply reports a request the arbiter refused to process.
type ErrorReply struct {
	Player int
	For    RequestKind
	Err    error
}

func (BeginTurn) Kind() RequestKind     { return KindBeginTurn }
func (m DrawReply) Kind() RequestKind   { return m.For }
func (BoardSnapshot) Kind() RequestKind { return KindGetBoard }
func (EndOfRound) Kind() RequestKind    { return KindEndOfRound }
func (GameOver) Kind() RequestKind      { return KindGameOver }
func (ErrorReply) Kind() RequestKind    { return KindError }

func (m BeginTurn) To() int     { return m.Player }
func (m DrawReply) To() int     { return m.Player }
func (m BoardSnapshot) To() int { return m.Player }
func (m EndOfRound) To() int    { return m.Player }
func (m GameOver) To() int      { return m.Player }
func (m ErrorReply) To() int    { return m.Player }

func snapshotFor(player int, snap domain.SupplySnapshot) BoardSnapshot {
	return BoardSnapshot{
		Player:    player,
		Displays:  snap.Displays,
		Pool:      snap.Pool,
		Marker:    snap.Marker,
		RoundOver: snap.RoundOver,
	}
}
