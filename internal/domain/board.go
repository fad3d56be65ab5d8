package domain

import "fmt"

// PatternLine is a staging row. Row i holds at most i+1 tiles of one color.
type PatternLine struct {
	count int
	color Color
}

// Count is the number of tiles on the line.
func (l PatternLine) Count() int { return l.count }

// Color returns the line's color; ok is false while the line is empty.
func (l PatternLine) Color() (c Color, ok bool) {
	if l.count == 0 {
		return 0, false
	}
	return l.color, true
}

// WallPlacement records one tile moved from a full line onto the wall.
type WallPlacement struct {
	Row    int
	Col    int
	Color  Color
	Points int
}

// RoundResult is what a board reports after end-of-round resolution.
type RoundResult struct {
	Placements []WallPlacement
	Gained     int
	Penalty    int
	// Returned holds the leftover tiles of every flushed line; only one tile
	// per line stays on the wall.
	Returned     TileCounts
	CompletedRow bool
	// TookMarker is set when this board picked up the first-player marker
	// during the round; that player opens the next one.
	TookMarker bool
}

// Board is one player's private state.
type Board struct {
	lines           [WallSize]PatternLine
	wall            Wall
	score           int
	penalties       int
	tookPoolPenalty bool
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

func checkRow(row int) error {
	if row < 0 || row >= WallSize {
		return fmt.Errorf("%w: %d", ErrBadRow, row)
	}
	return nil
}

// CheckValidPlacement reports whether tiles of color may go on row. It is
// false, not an error, when the wall already holds that color on the row or
// the line carries a different color.
func (b *Board) CheckValidPlacement(color Color, row int) (bool, error) {
	if !color.Valid() {
		return false, fmt.Errorf("%w: %d", ErrBadColor, uint8(color))
	}
	if err := checkRow(row); err != nil {
		return false, err
	}
	if b.wall.Has(row, color) {
		return false, nil
	}
	if lc, ok := b.lines[row].Color(); ok && lc != color {
		return false, nil
	}
	return true, nil
}

// PlaceTiles adds count tiles to row. Anything over capacity becomes penalty
// and is returned so the caller can give those tiles back to the bag.
func (b *Board) PlaceTiles(row int, color Color, count int) (overflow int) {
	line := &b.lines[row]
	line.count += count
	line.color = color
	capacity := row + 1
	if line.count > capacity {
		overflow = line.count - capacity
		b.penalties += overflow
		line.count = capacity
	}
	return overflow
}

// AddPenalty adds n to this round's penalty counter.
func (b *Board) AddPenalty(n int) {
	b.penalties += n
}

// MarkPoolPenalty records that this board took the first-player marker.
func (b *Board) MarkPoolPenalty() {
	b.tookPoolPenalty = true
	b.penalties++
}

// ResolveRoundEnd flushes every full line onto the wall, scores the new
// tiles, applies the round's penalty and clears the per-round counters.
func (b *Board) ResolveRoundEnd() RoundResult {
	var res RoundResult
	for row := range b.lines {
		line := &b.lines[row]
		if line.count != row+1 {
			continue
		}
		col := WallColumn(row, line.color)
		b.wall[row][col] = true
		pts := AdjacencyScore(&b.wall, row, col)
		res.Gained += pts
		res.Placements = append(res.Placements, WallPlacement{Row: row, Col: col, Color: line.color, Points: pts})
		res.Returned[line.color] += line.count - 1
		*line = PatternLine{}
	}

	res.Penalty = PenaltyForCount(b.penalties)
	b.score = max(b.score+res.Gained-res.Penalty, 0)
	res.TookMarker = b.tookPoolPenalty
	b.penalties = 0
	b.tookPoolPenalty = false
	res.CompletedRow = b.wall.AnyRowComplete()
	return res
}

// Finalize adds the end-of-game bonus to the score and returns the bonus.
func (b *Board) Finalize() int {
	bonus := FinalizeBonus(&b.wall)
	b.score += bonus
	return bonus
}

func (b *Board) Score() int     { return b.score }
func (b *Board) Penalties() int { return b.penalties }
func (b *Board) Wall() Wall     { return b.wall }

// Line returns a copy of the pattern line for row.
func (b *Board) Line(row int) PatternLine {
	return b.lines[row]
}

// TilesHeld counts tiles on the pattern lines and the wall.
func (b *Board) TilesHeld() int {
	n := b.wall.Count()
	for _, l := range b.lines {
		n += l.count
	}
	return n
}
