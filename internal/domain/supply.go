package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// Shuffler reorders the bag before a deal.
type Shuffler func(bag []Color)

// RandomShuffler shuffles with rng, or a time-seeded source when rng is nil.
func RandomShuffler(rng *rand.Rand) Shuffler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return func(bag []Color) {
		rng.Shuffle(len(bag), func(i, j int) { bag[i], bag[j] = bag[j], bag[i] })
	}
}

// Supply owns the bag, the factory displays and the shared pool.
// It is not safe for concurrent use; the arbiter is its only owner.
type Supply struct {
	numPlayers int
	bag        []Color
	displays   []TileCounts
	pool       TileCounts
	marker     bool
	shuffle    Shuffler
}

// SupplySnapshot is a read-only copy of the shared state.
type SupplySnapshot struct {
	Displays  []TileCounts
	Pool      TileCounts
	Marker    bool
	RoundOver bool
	BagSize   int
}

// NewSupply fills the bag with the full tile set and places the
// first-player marker in the pool. Nothing is dealt yet.
func NewSupply(numPlayers int, shuffle Shuffler) *Supply {
	if shuffle == nil {
		shuffle = RandomShuffler(nil)
	}
	s := &Supply{
		numPlayers: numPlayers,
		bag:        make([]Color, 0, TotalTiles),
		shuffle:    shuffle,
		marker:     true,
	}
	for _, c := range Colors {
		for i := 0; i < TilesPerColor; i++ {
			s.bag = append(s.bag, c)
		}
	}
	return s
}

// DisplayCount returns how many displays a deal from a bag of bagSize tiles
// creates. The bag-limited case gets one extra partial display when tiles
// would otherwise be left behind.
func DisplayCount(bagSize, numPlayers int) int {
	full := bagSize / TilesPerDisplay
	limit := 2*numPlayers + 1
	if full >= limit {
		return limit
	}
	if bagSize%TilesPerDisplay != 0 {
		return full + 1
	}
	return full
}

// Deal shuffles the bag and fills a fresh row of displays.
func (s *Supply) Deal() {
	n := DisplayCount(len(s.bag), s.numPlayers)
	s.shuffle(s.bag)
	s.displays = make([]TileCounts, 0, n)
	for i := 0; i < n; i++ {
		var d TileCounts
		for j := 0; j < TilesPerDisplay && len(s.bag) > 0; j++ {
			d[s.pop()]++
		}
		s.displays = append(s.displays, d)
	}
}

func (s *Supply) pop() Color {
	if len(s.bag) == 0 {
		panic("domain: tile bag exhausted during deal")
	}
	c := s.bag[len(s.bag)-1]
	s.bag = s.bag[:len(s.bag)-1]
	return c
}

func (s *Supply) validFactoryRequest(idx int, color Color) bool {
	return idx >= 0 && idx < len(s.displays) && s.displays[idx][color] > 0
}

// DrawFromDisplay takes every tile of color from display idx. The display is
// removed and its remaining tiles move to the pool.
func (s *Supply) DrawFromDisplay(idx int, color Color) (int, error) {
	if !color.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrBadColor, uint8(color))
	}
	if !s.validFactoryRequest(idx, color) {
		return 0, fmt.Errorf("%w: display %d has no %s", ErrBadFactoryRequest, idx, color)
	}
	d := s.displays[idx]
	s.displays = append(s.displays[:idx], s.displays[idx+1:]...)

	n := d[color]
	d[color] = 0
	for _, c := range Colors {
		s.pool[c] += d[c]
	}
	return n, nil
}

// DrawFromPool takes every tile of color from the pool. penalty is true when
// this draw picked up the first-player marker.
func (s *Supply) DrawFromPool(color Color) (n int, penalty bool, err error) {
	if !color.Valid() {
		return 0, false, fmt.Errorf("%w: %d", ErrBadColor, uint8(color))
	}
	n = s.pool[color]
	if n == 0 {
		return 0, false, fmt.Errorf("%w: pool has no %s", ErrBadPoolRequest, color)
	}
	s.pool[color] = 0
	if s.marker {
		s.marker = false
		penalty = true
	}
	return n, penalty, nil
}

// ReturnToBag puts count tiles of color back into the bag.
func (s *Supply) ReturnToBag(color Color, count int) error {
	if !color.Valid() {
		return fmt.Errorf("%w: %d", ErrBadColor, uint8(color))
	}
	if count < 0 {
		return fmt.Errorf("domain: negative return count %d", count)
	}
	var tc TileCounts
	tc[color] = count
	s.sweep(tc)
	return nil
}

// IsRoundOver is true once every display is gone and the pool holds no tiles.
// The marker does not count.
func (s *Supply) IsRoundOver() bool {
	return len(s.displays) == 0 && s.pool.IsEmpty()
}

// ResetRound sweeps anything left on the displays or in the pool back into
// the bag and puts the marker back for the next deal.
func (s *Supply) ResetRound() {
	for _, d := range s.displays {
		s.sweep(d)
	}
	s.sweep(s.pool)
	s.displays = nil
	s.pool = TileCounts{}
	s.marker = true
}

func (s *Supply) sweep(tc TileCounts) {
	for _, c := range Colors {
		for i := 0; i < tc[c]; i++ {
			s.bag = append(s.bag, c)
		}
	}
}

// Snapshot copies the shared state.
func (s *Supply) Snapshot() SupplySnapshot {
	displays := make([]TileCounts, len(s.displays))
	copy(displays, s.displays)
	return SupplySnapshot{
		Displays:  displays,
		Pool:      s.pool,
		Marker:    s.marker,
		RoundOver: s.IsRoundOver(),
		BagSize:   len(s.bag),
	}
}

// TileTotal counts tiles in the bag, displays and pool.
func (s *Supply) TileTotal() int {
	n := len(s.bag) + s.pool.Total()
	for _, d := range s.displays {
		n += d.Total()
	}
	return n
}

func (s *Supply) BagSize() int     { return len(s.bag) }
func (s *Supply) NumDisplays() int { return len(s.displays) }
func (s *Supply) Marker() bool     { return s.marker }
func (s *Supply) Pool() TileCounts { return s.pool }
