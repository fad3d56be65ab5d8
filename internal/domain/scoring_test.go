package domain

import "testing"

func wallWith(cells ...[2]int) *Wall {
	var w Wall
	for _, c := range cells {
		w[c[0]][c[1]] = true
	}
	return &w
}

func TestAdjacencyScore(t *testing.T) {
	tests := []struct {
		name     string
		wall     *Wall
		row, col int
		want     int
	}{
		{
			name: "isolated tile",
			wall: wallWith([2]int{2, 2}),
			row:  2, col: 2,
			want: 1,
		},
		{
			name: "extends row run to three",
			wall: wallWith([2]int{0, 0}, [2]int{0, 1}, [2]int{0, 2}),
			row:  0, col: 2,
			want: 3,
		},
		{
			name: "joins row of two and column of two",
			wall: wallWith([2]int{1, 1}, [2]int{1, 2}, [2]int{2, 2}),
			row:  1, col: 2,
			want: 4,
		},
		{
			name: "column only",
			wall: wallWith([2]int{0, 4}, [2]int{1, 4}, [2]int{2, 4}, [2]int{3, 4}),
			row:  3, col: 4,
			want: 4,
		},
		{
			name: "gap stops the run",
			wall: wallWith([2]int{4, 0}, [2]int{4, 2}, [2]int{4, 3}),
			row:  4, col: 2,
			want: 2,
		},
		{
			name: "row of three and column of two",
			wall: wallWith([2]int{1, 1}, [2]int{2, 2}, [2]int{2, 1}, [2]int{2, 3}, [2]int{1, 3}),
			row:  2, col: 1,
			want: 5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdjacencyScore(tt.wall, tt.row, tt.col); got != tt.want {
				t.Fatalf("AdjacencyScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPenaltyForCount(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 5}, {5, 7}, {6, 10}, {7, 13}, {8, 15}, {9, 15}, {40, 15},
	}
	for _, tt := range tests {
		if got := PenaltyForCount(tt.n); got != tt.want {
			t.Fatalf("PenaltyForCount(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
	for n := 1; n < 12; n++ {
		if PenaltyForCount(n) < PenaltyForCount(n-1) {
			t.Fatalf("penalty table must be non-decreasing at %d", n)
		}
	}
}

func TestFinalizeBonus(t *testing.T) {
	var w Wall
	for i := 0; i < WallSize; i++ {
		w[1][i] = true
		w[i][1] = true
	}
	// Row 1 and column 1 are full; no color covers every row.
	if got := FinalizeBonus(&w); got != 9 {
		t.Fatalf("FinalizeBonus() = %d, want 9", got)
	}

	for row := 0; row < WallSize; row++ {
		w[row][WallColumn(row, Blue)] = true
	}
	w[0][0] = true
	w[0][3] = true
	w[4][4] = true
	if got := FinalizeBonus(&w); got != 19 {
		t.Fatalf("FinalizeBonus() with all blues = %d, want 19", got)
	}

	w[1][1] = false
	if got := FinalizeBonus(&w); got != 10 {
		t.Fatalf("FinalizeBonus() after clearing [1][1] = %d, want 10", got)
	}
}

func TestWallColumnIsPermutation(t *testing.T) {
	for row := 0; row < WallSize; row++ {
		seen := make(map[int]bool)
		for _, c := range Colors {
			col := WallColumn(row, c)
			if seen[col] {
				t.Fatalf("row %d maps two colors to column %d", row, col)
			}
			seen[col] = true
			if ColorAt(row, col) != c {
				t.Fatalf("ColorAt(%d, %d) = %v, want %v", row, col, ColorAt(row, col), c)
			}
		}
	}
	for col := 0; col < WallSize; col++ {
		seen := make(map[Color]bool)
		for row := 0; row < WallSize; row++ {
			c := ColorAt(row, col)
			if seen[c] {
				t.Fatalf("column %d repeats %v", col, c)
			}
			seen[c] = true
		}
	}
}
