package optim

import (
	"context"
	"errors"
	"math"
	"sort"
)

var ErrNoCandidate = errors.New("optim: no parameters satisfy the limits")

// RunFunc runs one configuration and returns its metrics.
type RunFunc func(ctx context.Context, params map[string]float64) (map[string]float64, error)

// Candidate is one evaluated grid point.
type Candidate struct {
	Params  map[string]float64 `json:"params"`
	Metrics map[string]float64 `json:"metrics"`
	Score   float64            `json:"score"`
}

// GridSearch evaluates every combination of the parameter ranges and keeps
// the one with the lowest objective metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	// Limits are upper bounds on other metrics. Points exceeding any limit
	// are rejected.
	Limits map[string]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	if len(g.ranges) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search returns the best candidate and every accepted candidate sorted by
// score. Negative metric values count as never reaching the goal, so a
// settle time of -1 ranks last.
func (g *GridSearch) Search(ctx context.Context, run RunFunc, metric string) (Candidate, []Candidate, error) {
	var accepted []Candidate
	err := g.searchRecursive(ctx, 0, make(map[string]float64), run, metric, &accepted)
	if err != nil {
		return Candidate{}, accepted, err
	}
	if len(accepted) == 0 {
		return Candidate{}, nil, ErrNoCandidate
	}
	sort.SliceStable(accepted, func(i, j int) bool { return accepted[i].Score < accepted[j].Score })
	return accepted[0], accepted, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	run RunFunc,
	metric string,
	accepted *[]Candidate,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		m, err := run(ctx, current)
		if err != nil {
			return err
		}
		for name, limit := range g.Limits {
			if m[name] > limit {
				return nil
			}
		}

		score := m[metric]
		if score < 0 {
			score = math.Inf(1)
		}
		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		*accepted = append(*accepted, Candidate{Params: params, Metrics: m, Score: score})
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		if err := g.searchRecursive(ctx, depth+1, current, run, metric, accepted); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
