// Package nav moves a selection index over linear lists and row-major grids.
package nav

import "github.com/pders01/qlaunch/internal/result"

// Direction is a navigation direction.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// Linear walks from index from in the given direction, skipping rows that
// cannot hold the selection. It stops at the first or last selectable row
// instead of wrapping, returning from unchanged when nothing lies beyond.
// Left is treated as Up and Right as Down.
func Linear(l result.List, from int, dir Direction) int {
	step := 1
	if dir == Up || dir == Left {
		step = -1
	}
	if from == result.NoSelection {
		if step > 0 {
			return firstFrom(l, 0, 1, from)
		}
		return firstFrom(l, l.Len()-1, -1, from)
	}
	return firstFrom(l, from+step, step, from)
}

// First returns the first selectable index, or result.NoSelection.
func First(l result.List) int {
	return firstFrom(l, 0, 1, result.NoSelection)
}

// Last returns the last selectable index, or result.NoSelection.
func Last(l result.List) int {
	return firstFrom(l, l.Len()-1, -1, result.NoSelection)
}

func firstFrom(l result.List, start, step, fallback int) int {
	for i := start; i >= 0 && i < l.Len(); i += step {
		if l.Selectable(i) {
			return i
		}
	}
	return fallback
}

// Grid is a row-major arrangement of Count cells in Columns columns.
// The last row may be shorter than the others.
type Grid struct {
	Columns int
	Count   int
}

// Rows returns the number of rows in the grid.
func (g Grid) Rows() int {
	if g.Columns <= 0 || g.Count <= 0 {
		return 0
	}
	return (g.Count + g.Columns - 1) / g.Columns
}

// Position returns the row and column of cell idx.
func (g Grid) Position(idx int) (row, col int) {
	if g.Columns <= 0 {
		return 0, idx
	}
	return idx / g.Columns, idx % g.Columns
}

// Move returns the cell reached from idx in direction dir. Left and Right
// step through the row-major order, so they wrap onto the adjacent row at
// row boundaries. Up and Down move a whole row; moving onto a shorter last
// row clamps the column to that row's final cell. ok is false when the move
// would leave the grid, in which case idx is returned unchanged.
func (g Grid) Move(idx int, dir Direction) (next int, ok bool) {
	if g.Columns <= 0 || idx < 0 || idx >= g.Count {
		return idx, false
	}
	switch dir {
	case Left:
		if idx == 0 {
			return idx, false
		}
		return idx - 1, true
	case Right:
		if idx+1 >= g.Count {
			return idx, false
		}
		return idx + 1, true
	case Up:
		if idx-g.Columns < 0 {
			return idx, false
		}
		return idx - g.Columns, true
	case Down:
		row, _ := g.Position(idx)
		if row+1 >= g.Rows() {
			return idx, false
		}
		target := idx + g.Columns
		if target >= g.Count {
			target = g.Count - 1
		}
		return target, true
	}
	return idx, false
}
