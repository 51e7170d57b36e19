package effects

// Parallax shifts a layer proportionally to its scroll progress. At progress
// 0.5 (element centered) the offset is zero.
type Parallax struct {
	// Speed scales the effect; negative values move against the scroll.
	Speed float64
	// Range is the full travel in pixels at Speed 1.
	Range float64
}

func (p Parallax) Offset(progress float64) float64 {
	return (progress - 0.5) * p.Speed * p.Range
}
