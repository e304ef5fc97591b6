package core

import "sort"

// CellSet is an unordered set of cells. Cells() returns them in (col,row) order
// so callers get deterministic output.
type CellSet map[HexCell]struct{}

// NewCellSet creates a set holding the given cells
func NewCellSet(cells ...HexCell) CellSet {
	s := make(CellSet, len(cells))
	for _, c := range cells {
		s[c] = struct{}{}
	}
	return s
}

func (s CellSet) Add(c HexCell) {
	s[c] = struct{}{}
}

func (s CellSet) AddAll(cells []HexCell) {
	for _, c := range cells {
		s[c] = struct{}{}
	}
}

func (s CellSet) Remove(c HexCell) {
	delete(s, c)
}

func (s CellSet) Contains(c HexCell) bool {
	_, ok := s[c]
	return ok
}

func (s CellSet) Len() int {
	return len(s)
}

// Cells returns the members sorted by (col,row)
func (s CellSet) Cells() []HexCell {
	out := make([]HexCell, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	SortCells(out)
	return out
}

// SortCells sorts cells in place by (col,row)
func SortCells(cells []HexCell) {
	sort.Slice(cells, func(i, j int) bool {
		return cells[i].Less(cells[j])
	})
}
