package grid

// GetGridCoords maps a linear index to its (column, row) in a grid that is
// cols wide.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// Rows returns how many rows of cols cells hold n items.
func Rows(n, cols int) int {
	if n <= 0 {
		return 0
	}
	return (n + cols - 1) / cols
}
