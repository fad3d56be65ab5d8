package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"azool/internal/domain"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

var (
	ErrTooFewPlayers  = errors.New("too few players")
	ErrTooManyPlayers = errors.New("too many players")
)

// Options configures a Game.
type Options struct {
	MailboxSize int
	Shuffle     domain.Shuffler
}

// Game wires an arbiter to one player actor per chooser.
type Game struct {
	ID      string
	logger  runtime.Logger
	arbiter *Arbiter
	players []*PlayerActor
}

func NewGame(opts Options, choosers []Chooser, logger runtime.Logger) (*Game, error) {
	n := len(choosers)
	if n < MinPlayersToStartGame {
		return nil, fmt.Errorf("%w: %d", ErrTooFewPlayers, n)
	}
	if n > MaxPlayersPerGame {
		return nil, fmt.Errorf("%w: %d", ErrTooManyPlayers, n)
	}

	id := uuid.NewString()
	g := &Game{
		ID:      id,
		logger:  logger.WithField("game_id", id),
		players: make([]*PlayerActor, n),
	}
	g.arbiter = NewArbiter(n, opts.MailboxSize, opts.Shuffle, g.logger)
	for i, c := range choosers {
		g.players[i] = NewPlayerActor(i, g.arbiter.Outbox(i), g.arbiter.Inbox(), c, g.logger.WithField("seat", i))
	}
	return g, nil
}

// OnEvent forwards arbiter events to fn. Set it before Run.
func (g *Game) OnEvent(fn func(Event)) { g.arbiter.OnEvent(fn) }

func (g *Game) NumPlayers() int { return len(g.players) }

// Rounds reports how many rounds were dealt.
func (g *Game) Rounds() int { return g.arbiter.Round() }

// Board returns a player's board. Only read it after Run returns.
func (g *Game) Board(player int) *domain.Board { return g.players[player].Board() }

// TilesInPlay counts every tile in the supply and on the boards. It stays at
// domain.TotalTiles for the life of a game.
func (g *Game) TilesInPlay() int {
	n := g.arbiter.TileTotal()
	for _, p := range g.players {
		n += p.Board().TilesHeld()
	}
	return n
}

// Run plays the game to completion. The first player or arbiter failure
// cancels everything else.
func (g *Game) Run(ctx context.Context) (Standings, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for _, p := range g.players {
		wg.Add(1)
		go func(p *PlayerActor) {
			defer wg.Done()
			if _, err := p.Run(ctx); err != nil {
				fail(fmt.Errorf("player %d: %w", p.ID(), err))
			}
		}(p)
	}

	standings, err := g.arbiter.Run(ctx)
	if err != nil {
		fail(fmt.Errorf("arbiter: %w", err))
	}
	wg.Wait()

	if firstErr != nil {
		g.logger.Error("game %s aborted: %v", g.ID, firstErr)
		return nil, firstErr
	}
	return standings, nil
}
