package domain

import (
	"errors"
	"testing"
)

func TestCheckValidPlacement(t *testing.T) {
	b := NewBoard()
	b.PlaceTiles(2, Green, 1)
	b.wall[3][WallColumn(3, Red)] = true

	tests := []struct {
		name    string
		color   Color
		row     int
		want    bool
		wantErr error
	}{
		{name: "empty line", color: Blue, row: 0, want: true},
		{name: "same color on line", color: Green, row: 2, want: true},
		{name: "different color on line", color: Red, row: 2, want: false},
		{name: "already on wall", color: Red, row: 3, want: false},
		{name: "bad color", color: Color(5), row: 0, wantErr: ErrBadColor},
		{name: "row too large", color: Red, row: 5, wantErr: ErrBadRow},
		{name: "negative row", color: Red, row: -1, wantErr: ErrBadRow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.CheckValidPlacement(tt.color, tt.row)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("CheckValidPlacement() = %t, %v; want %t", got, err, tt.want)
			}
		})
	}
}

func TestPlaceTilesOverflow(t *testing.T) {
	b := NewBoard()
	if over := b.PlaceTiles(1, Yellow, 1); over != 0 {
		t.Fatalf("overflow = %d, want 0", over)
	}
	if over := b.PlaceTiles(1, Yellow, 3); over != 2 {
		t.Fatalf("overflow = %d, want 2", over)
	}
	line := b.Line(1)
	if c, ok := line.Color(); !ok || c != Yellow || line.Count() != 2 {
		t.Fatalf("line = %+v", line)
	}
	if b.Penalties() != 2 {
		t.Fatalf("Penalties() = %d, want 2", b.Penalties())
	}
}

func TestResolveRoundEnd(t *testing.T) {
	b := NewBoard()
	b.PlaceTiles(0, Red, 4)   // full, overflow 3
	b.PlaceTiles(2, Blue, 3)  // full
	b.PlaceTiles(4, White, 2) // partial, stays
	b.MarkPoolPenalty()

	res := b.ResolveRoundEnd()
	if len(res.Placements) != 2 {
		t.Fatalf("placements = %+v", res.Placements)
	}
	if res.Gained != 2 {
		t.Fatalf("Gained = %d, want 2", res.Gained)
	}
	if res.Penalty != PenaltyForCount(4) {
		t.Fatalf("Penalty = %d, want %d", res.Penalty, PenaltyForCount(4))
	}
	if b.Score() != 0 {
		t.Fatalf("score should floor at 0, got %d", b.Score())
	}
	if res.Returned != (TileCounts{Blue: 2}) {
		t.Fatalf("Returned = %v", res.Returned)
	}
	if !res.TookMarker {
		t.Fatalf("TookMarker not reported")
	}
	if b.Penalties() != 0 {
		t.Fatalf("per-round counters not reset")
	}
	if next := b.ResolveRoundEnd(); next.TookMarker || next.Penalty != 0 {
		t.Fatalf("marker flag carried into the next round: %+v", next)
	}
	if _, ok := b.Line(0).Color(); ok {
		t.Fatalf("flushed line should be empty")
	}
	if b.Line(4).Count() != 2 {
		t.Fatalf("partial line should survive, count %d", b.Line(4).Count())
	}
	w := b.Wall()
	if !w.Has(0, Red) || !w.Has(2, Blue) {
		t.Fatalf("wall missing placements: %v", w)
	}
	if res.CompletedRow {
		t.Fatalf("no row is complete")
	}
	if b.TilesHeld() != 4 {
		t.Fatalf("TilesHeld() = %d, want 4", b.TilesHeld())
	}
}

func TestResolveRoundEndCompletesRow(t *testing.T) {
	b := NewBoard()
	for _, c := range []Color{Red, Blue, Green, Yellow} {
		b.wall[0][WallColumn(0, c)] = true
	}
	b.score = 10
	b.PlaceTiles(0, White, 1)

	res := b.ResolveRoundEnd()
	if !res.CompletedRow {
		t.Fatalf("row 0 should be complete")
	}
	if res.Gained != 5 {
		t.Fatalf("Gained = %d, want 5", res.Gained)
	}
	if b.Score() != 15 {
		t.Fatalf("Score() = %d, want 15", b.Score())
	}
	if bonus := b.Finalize(); bonus != BonusPerRow {
		t.Fatalf("Finalize() = %d, want %d", bonus, BonusPerRow)
	}
	if b.Score() != 17 {
		t.Fatalf("Score() after bonus = %d, want 17", b.Score())
	}
}

func TestResolveRoundEndScoresAfterPenalty(t *testing.T) {
	b := NewBoard()
	b.score = 8
	b.PlaceTiles(0, Green, 4) // overflow 3
	res := b.ResolveRoundEnd()
	if res.Gained != 1 || res.Penalty != 3 {
		t.Fatalf("Gained=%d Penalty=%d, want 1 and 3", res.Gained, res.Penalty)
	}
	if b.Score() != 6 {
		t.Fatalf("Score() = %d, want 6", b.Score())
	}
}
