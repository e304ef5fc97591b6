package core

import (
	"fmt"
	"math"
)

// HexCell is a grid cell in offset coordinates (odd-q layout: odd columns are
// shifted half a cell down). Storage and display use this form.
type HexCell struct {
	Col, Row int
}

// NewHexCell creates a new cell with the given column and row
func NewHexCell(col, row int) HexCell {
	return HexCell{Col: col, Row: row}
}

// Cube is a cell in cube coordinates. Q+R+S is always 0 for a valid cell.
type Cube struct {
	Q, R, S int
}

// NewCube creates a cube coordinate from q and r, deriving s
func NewCube(q, r int) Cube {
	return Cube{Q: q, R: r, S: -q - r}
}

// IsValid reports whether the cube triple satisfies q+r+s == 0
func (c Cube) IsValid() bool {
	return c.Q+c.R+c.S == 0
}

// Add returns the component-wise sum of two cube coordinates
func (c Cube) Add(other Cube) Cube {
	return Cube{Q: c.Q + other.Q, R: c.R + other.R, S: c.S + other.S}
}

// Sub returns the component-wise difference of two cube coordinates
func (c Cube) Sub(other Cube) Cube {
	return Cube{Q: c.Q - other.Q, R: c.R - other.R, S: c.S - other.S}
}

// String returns a string representation of the cube coordinate
func (c Cube) String() string {
	return fmt.Sprintf("[%d,%d,%d]", c.Q, c.R, c.S)
}

// OffsetToCube converts an offset cell to cube coordinates
func OffsetToCube(h HexCell) Cube {
	q := h.Col
	r := h.Row - (h.Col-(h.Col&1))/2
	return Cube{Q: q, R: r, S: -q - r}
}

// CubeToOffset converts cube coordinates back to an offset cell
func CubeToOffset(c Cube) HexCell {
	return HexCell{Col: c.Q, Row: c.R + (c.Q-(c.Q&1))/2}
}

// ToCube is shorthand for OffsetToCube(h)
func (h HexCell) ToCube() Cube {
	return OffsetToCube(h)
}

// Equal checks if two cells are equal
func (h HexCell) Equal(other HexCell) bool {
	return h.Col == other.Col && h.Row == other.Row
}

// String returns a string representation of the cell
func (h HexCell) String() string {
	return fmt.Sprintf("(%d,%d)", h.Col, h.Row)
}

// Less orders cells by column, then row. Used wherever output order must be stable.
func (h HexCell) Less(other HexCell) bool {
	if h.Col != other.Col {
		return h.Col < other.Col
	}
	return h.Row < other.Row
}

// CubeDistance returns the hex distance between two cube coordinates
func CubeDistance(a, b Cube) int {
	return (abs(a.Q-b.Q) + abs(a.R-b.R) + abs(a.S-b.S)) / 2
}

// Distance returns the hex distance between two offset cells
func Distance(a, b HexCell) int {
	return CubeDistance(OffsetToCube(a), OffsetToCube(b))
}

// DistanceTo is the method form of Distance
func (h HexCell) DistanceTo(other HexCell) int {
	return Distance(h, other)
}

// Offset deltas for the six neighbors, indexed by column parity.
// Order: N, NE, SE, S, SW, NW.
var neighborDeltas = [2][6]HexCell{
	// even columns
	{{0, -1}, {1, -1}, {1, 0}, {0, 1}, {-1, 0}, {-1, -1}},
	// odd columns
	{{0, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}},
}

// CubeDirections are the six unit steps in cube space, in the same N..NW order
// as the offset neighbor table.
var CubeDirections = [6]Cube{
	{Q: 0, R: -1, S: 1},
	{Q: 1, R: -1, S: 0},
	{Q: 1, R: 0, S: -1},
	{Q: 0, R: 1, S: -1},
	{Q: -1, R: 1, S: 0},
	{Q: -1, R: 0, S: 1},
}

// Neighbors returns the six adjacent cells. The offset delta table depends on
// column parity, so the lookup branches on Col&1.
func (h HexCell) Neighbors() [6]HexCell {
	deltas := &neighborDeltas[h.Col&1]
	var out [6]HexCell
	for i, d := range deltas {
		out[i] = HexCell{Col: h.Col + d.Col, Row: h.Row + d.Row}
	}
	return out
}

// Neighbors is the function form of HexCell.Neighbors
func Neighbors(h HexCell) [6]HexCell {
	return h.Neighbors()
}

// IsAdjacentTo checks if two cells share an edge
func (h HexCell) IsAdjacentTo(other HexCell) bool {
	return Distance(h, other) == 1
}

// FractionalCube is an unrounded cube position produced by interpolation.
type FractionalCube struct {
	Q, R, S float64
}

// CubeRound snaps a fractional cube position to the nearest valid cube triple.
// The component with the largest rounding error is recomputed from the other
// two so the result keeps q+r+s == 0.
func CubeRound(f FractionalCube) Cube {
	rq := math.Round(f.Q)
	rr := math.Round(f.R)
	rs := math.Round(f.S)

	dq := math.Abs(rq - f.Q)
	dr := math.Abs(rr - f.R)
	ds := math.Abs(rs - f.S)

	if dq > dr && dq > ds {
		rq = -rr - rs
	} else if dr > ds {
		rr = -rq - rs
	} else {
		rs = -rq - rr
	}

	return Cube{Q: int(rq), R: int(rr), S: int(rs)}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// CubeLerp interpolates between two cube coordinates
func CubeLerp(a, b Cube, t float64) FractionalCube {
	return FractionalCube{
		Q: lerp(float64(a.Q), float64(b.Q), t),
		R: lerp(float64(a.R), float64(b.R), t),
		S: lerp(float64(a.S), float64(b.S), t),
	}
}

// LineDraw returns the connected path of unique cells from a to b inclusive.
// It samples Distance(a,b)+1 points along the cube-space segment.
func LineDraw(a, b HexCell) []HexCell {
	ac := OffsetToCube(a)
	bc := OffsetToCube(b)
	n := CubeDistance(ac, bc)
	if n == 0 {
		return []HexCell{a}
	}

	line := make([]HexCell, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		cell := CubeToOffset(CubeRound(CubeLerp(ac, bc, t)))
		if len(line) > 0 && line[len(line)-1] == cell {
			continue
		}
		line = append(line, cell)
	}
	return line
}

// CellsInRadius returns every cell whose distance from center is between
// minDist and radius inclusive, ordered by (col,row).
func CellsInRadius(center HexCell, minDist, radius int) []HexCell {
	if radius < 0 || minDist > radius {
		return nil
	}
	cc := OffsetToCube(center)
	cells := make([]HexCell, 0, 3*radius*(radius+1)+1)
	for q := -radius; q <= radius; q++ {
		rLo := max(-radius, -q-radius)
		rHi := min(radius, -q+radius)
		for r := rLo; r <= rHi; r++ {
			d := NewCube(q, r)
			dist := CubeDistance(Cube{}, d)
			if dist < minDist {
				continue
			}
			cells = append(cells, CubeToOffset(cc.Add(d)))
		}
	}
	SortCells(cells)
	return cells
}

// TranslateOffset applies a pattern offset (expressed relative to (0,0)) to
// origin in cube space, so the shape keeps its form regardless of the
// origin's column parity.
func TranslateOffset(origin, delta HexCell) HexCell {
	return CubeToOffset(OffsetToCube(origin).Add(OffsetToCube(delta)))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
