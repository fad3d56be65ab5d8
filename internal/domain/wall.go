package domain

// Wall is a player's permanent placement grid, indexed [row][col].
type Wall [WallSize][WallSize]bool

// WallColumn is the fixed column a color occupies on a given row. Every row
// holds each color once and so does every column.
func WallColumn(row int, color Color) int {
	return (WallSize + int(color) + row) % WallSize
}

// ColorAt is the inverse of WallColumn.
func ColorAt(row, col int) Color {
	return Color(((col-row)%WallSize + WallSize) % WallSize)
}

// Has reports whether (row, color) is already on the wall.
func (w *Wall) Has(row int, color Color) bool {
	return w[row][WallColumn(row, color)]
}

// RowComplete reports whether every cell of row is set.
func (w *Wall) RowComplete(row int) bool {
	for col := 0; col < WallSize; col++ {
		if !w[row][col] {
			return false
		}
	}
	return true
}

// ColumnComplete reports whether every cell of col is set.
func (w *Wall) ColumnComplete(col int) bool {
	for row := 0; row < WallSize; row++ {
		if !w[row][col] {
			return false
		}
	}
	return true
}

// ColorComplete reports whether color sits on every row.
func (w *Wall) ColorComplete(color Color) bool {
	for row := 0; row < WallSize; row++ {
		if !w.Has(row, color) {
			return false
		}
	}
	return true
}

// AnyRowComplete is the game-ending condition.
func (w *Wall) AnyRowComplete() bool {
	for row := 0; row < WallSize; row++ {
		if w.RowComplete(row) {
			return true
		}
	}
	return false
}

// Count returns the number of set cells.
func (w *Wall) Count() int {
	n := 0
	for row := range w {
		for col := range w[row] {
			if w[row][col] {
				n++
			}
		}
	}
	return n
}
