package effects

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Drift produces a slow floating offset for idle elements from 2D simplex
// noise. The same seed always yields the same path.
type Drift struct {
	Amplitude float64
	// Frequency is noise space travelled per second.
	Frequency float64

	noise opensimplex.Noise
	t     float64
}

func NewDrift(seed int64, amplitude, frequency float64) *Drift {
	return &Drift{
		Amplitude: amplitude,
		Frequency: frequency,
		noise:     opensimplex.New(seed),
	}
}

// At returns the offset at time t without advancing the drift.
func (d *Drift) At(t float64) Point {
	s := t * d.Frequency
	// Separate rows of the noise field decorrelate the two axes.
	return Point{
		X: d.Amplitude * d.noise.Eval2(s, 0),
		Y: d.Amplitude * d.noise.Eval2(s, 31.7),
	}
}

func (d *Drift) Update(dt float64) Point {
	d.t += dt
	return d.At(d.t)
}

func (d *Drift) Offset() Point { return d.At(d.t) }
