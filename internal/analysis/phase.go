package analysis

import (
	"strings"

	"github.com/san-kum/motionkit/internal/dynamo"
)

type Point struct {
	X, Y float64
}

// Trajectory is a run projected onto two state components. Rest marks the
// point the motion should come to, e.g. (target, 0) for position against
// velocity.
type Trajectory struct {
	XIndex, YIndex int
	Rest           Point
	Points         []Point
}

// Phase projects every recorded state onto components xIdx and yIdx. It
// returns nil when either index is outside the state.
func Phase(r *dynamo.Result, xIdx, yIdx int, rest Point) *Trajectory {
	if r == nil || len(r.States) == 0 {
		return nil
	}
	dim := len(r.States[0])
	if xIdx < 0 || yIdx < 0 || xIdx >= dim || yIdx >= dim {
		return nil
	}

	tr := &Trajectory{XIndex: xIdx, YIndex: yIdx, Rest: rest, Points: make([]Point, 0, len(r.States))}
	for _, x := range r.States {
		if len(x) == dim {
			tr.Points = append(tr.Points, Point{X: x[xIdx], Y: x[yIdx]})
		}
	}
	return tr
}

// Bounds covers every point and the rest point, padded by a tenth of the
// span on each side.
func (tr *Trajectory) Bounds() (lo, hi Point) {
	lo, hi = tr.Rest, tr.Rest
	for _, p := range tr.Points {
		lo.X, hi.X = min(lo.X, p.X), max(hi.X, p.X)
		lo.Y, hi.Y = min(lo.Y, p.Y), max(hi.Y, p.Y)
	}
	pad := func(a, b float64) (float64, float64) {
		span := b - a
		if span == 0 {
			span = 1
		}
		return a - span/10, b + span/10
	}
	lo.X, hi.X = pad(lo.X, hi.X)
	lo.Y, hi.Y = pad(lo.Y, hi.Y)
	return lo, hi
}

// ASCII draws the trajectory on a width x height grid with axes crossing at
// the rest point. Cells visited once show '·', cells visited repeatedly '•',
// and the final state '◆'.
func (tr *Trajectory) ASCII(width, height int) string {
	if tr == nil || len(tr.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	lo, hi := tr.Bounds()
	cell := func(p Point) (row, col int) {
		col = int((p.X - lo.X) / (hi.X - lo.X) * float64(width-1))
		row = height - 1 - int((p.Y-lo.Y)/(hi.Y-lo.Y)*float64(height-1))
		return row, col
	}

	grid := make([][]rune, height)
	hits := make([][]int, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
		hits[i] = make([]int, width)
	}

	restRow, restCol := cell(tr.Rest)
	for r := range grid {
		grid[r][restCol] = '│'
	}
	for c := range grid[restRow] {
		grid[restRow][c] = '─'
	}
	grid[restRow][restCol] = '┼'

	for _, p := range tr.Points {
		r, c := cell(p)
		hits[r][c]++
		if hits[r][c] == 1 {
			grid[r][c] = '·'
		} else {
			grid[r][c] = '•'
		}
	}
	r, c := cell(tr.Points[len(tr.Points)-1])
	grid[r][c] = '◆'

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
