package metrics

import (
	"math"

	"github.com/san-kum/motionkit/internal/dynamo"
)

// ResidualEnergy is the energy left at the latest observation as a fraction
// of the first. A settled spring ends near 0.
type ResidualEnergy struct {
	sys          dynamo.Hamiltonian
	first, last  float64
	observations int
}

func NewResidualEnergy(sys dynamo.Hamiltonian) *ResidualEnergy {
	return &ResidualEnergy{sys: sys}
}

func (r *ResidualEnergy) Name() string { return "residual_energy" }

func (r *ResidualEnergy) Observe(x dynamo.State, u dynamo.Input, t float64) {
	r.last = r.sys.Energy(x)
	if r.observations == 0 {
		r.first = r.last
	}
	r.observations++
}

func (r *ResidualEnergy) Value() float64 {
	if r.first == 0 {
		return 0
	}
	return r.last / r.first
}

func (r *ResidualEnergy) Reset() {
	r.first, r.last = 0, 0
	r.observations = 0
}

// EnergyGain is the largest rise above the lowest energy seen so far,
// relative to the starting energy. Damping only removes energy, so with a
// fixed target any gain is integration error.
type EnergyGain struct {
	sys dynamo.Hamiltonian

	start, floor float64
	gain         float64
	seen         bool
}

func NewEnergyGain(sys dynamo.Hamiltonian) *EnergyGain {
	return &EnergyGain{sys: sys}
}

func (g *EnergyGain) Name() string { return "energy_gain" }

func (g *EnergyGain) Observe(x dynamo.State, u dynamo.Input, t float64) {
	e := g.sys.Energy(x)
	if !g.seen {
		g.start, g.floor, g.seen = e, e, true
		return
	}
	g.floor = math.Min(g.floor, e)
	if g.start != 0 {
		g.gain = math.Max(g.gain, (e-g.floor)/math.Abs(g.start))
	}
}

func (g *EnergyGain) Value() float64 { return g.gain }

func (g *EnergyGain) Reset() {
	g.start, g.floor, g.gain = 0, 0, 0
	g.seen = false
}
