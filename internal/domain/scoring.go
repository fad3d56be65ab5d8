package domain

// AdjacencyScore scores a tile just set at (row, col). Each axis counts the
// contiguous run through the tile. A tile alone on one axis scores only the
// other axis; otherwise both runs are added.
func AdjacencyScore(w *Wall, row, col int) int {
	rowRun := 1
	for c := col - 1; c >= 0 && w[row][c]; c-- {
		rowRun++
	}
	for c := col + 1; c < WallSize && w[row][c]; c++ {
		rowRun++
	}

	colRun := 1
	for r := row - 1; r >= 0 && w[r][col]; r-- {
		colRun++
	}
	for r := row + 1; r < WallSize && w[r][col]; r++ {
		colRun++
	}

	if rowRun == 1 || colRun == 1 {
		return max(rowRun, colRun)
	}
	return rowRun + colRun
}

// PenaltyForCount looks up the deduction for n penalties, capped at the
// last entry of the table.
func PenaltyForCount(n int) int {
	if n <= 0 {
		return 0
	}
	if n >= len(penaltyPoints) {
		return penaltyPoints[len(penaltyPoints)-1]
	}
	return penaltyPoints[n]
}

// FinalizeBonus is the end-of-game bonus for full rows, full columns and
// colors present on every row.
func FinalizeBonus(w *Wall) int {
	bonus := 0
	for i := 0; i < WallSize; i++ {
		if w.RowComplete(i) {
			bonus += BonusPerRow
		}
		if w.ColumnComplete(i) {
			bonus += BonusPerCol
		}
	}
	for _, c := range Colors {
		if w.ColorComplete(c) {
			bonus += BonusPerColor
		}
	}
	return bonus
}
