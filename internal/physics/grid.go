package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase lookups in the wrapping field.
// Items are inserted by position and index, then nearby items are found via a
// 3x3 cell neighborhood that wraps at the field edges.
//
// Cell size must be >= the largest distance at which two items can interact,
// otherwise the neighborhood misses candidates.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64
	cols        int
	rows        int
	cells       [][]int
}

// NewSpatialGrid creates a grid covering a width x height field.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cols := max(int(math.Ceil(width/cellSize)), 1)
	rows := max(int(math.Ceil(height/cellSize)), 1)

	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([][]int, cols*rows),
	}
}

// CellSize returns the grid's cell edge length.
func (g *SpatialGrid) CellSize() float64 {
	return g.cellSize
}

// Clear empties every cell, keeping the allocated memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds the item index at position p.
func (g *SpatialGrid) Insert(p Vec, index int) {
	col, row := g.cellOf(p)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], index)
}

// Near appends to dst every index stored in the 3x3 neighborhood of p and
// returns the extended slice. Indices come back in cell order, not sorted.
func (g *SpatialGrid) Near(p Vec, dst []int) []int {
	col, row := g.cellOf(p)

	// Small grids would visit the same cell more than once.
	seen := make(map[int]struct{}, 9)
	for dr := -1; dr <= 1; dr++ {
		r := (row + dr + g.rows) % g.rows
		for dc := -1; dc <= 1; dc++ {
			c := (col + dc + g.cols) % g.cols
			idx := r*g.cols + c
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			dst = append(dst, g.cells[idx]...)
		}
	}
	return dst
}

// cellOf converts a position to cell coordinates, clamped to the grid.
func (g *SpatialGrid) cellOf(p Vec) (col, row int) {
	col = min(max(int(p.X*g.invCellSize), 0), g.cols-1)
	row = min(max(int(p.Y*g.invCellSize), 0), g.rows-1)
	return col, row
}
