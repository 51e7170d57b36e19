package integrators

import "github.com/san-kum/motionkit/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta method. It is the reference
// solution when comparing the cheaper per-frame steppers.
type RK4 struct {
	k       [4]dynamo.State
	scratch dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) resize(n int) {
	if len(r.scratch) == n {
		return
	}
	for i := range r.k {
		r.k[i] = make(dynamo.State, n)
	}
	r.scratch = make(dynamo.State, n)
}

// offset writes x + h*k into the scratch buffer.
func (r *RK4) offset(x, k dynamo.State, h float64) dynamo.State {
	for i := range x {
		r.scratch[i] = x[i] + h*k[i]
	}
	return r.scratch
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Input, t, dt float64) dynamo.State {
	n := len(x)
	r.resize(n)
	half := dt * 0.5

	copy(r.k[0], dyn.Derive(x, u, t))
	copy(r.k[1], dyn.Derive(r.offset(x, r.k[0], half), u, t+half))
	copy(r.k[2], dyn.Derive(r.offset(x, r.k[1], half), u, t+half))
	copy(r.k[3], dyn.Derive(r.offset(x, r.k[2], dt), u, t+dt))

	result := make(dynamo.State, n)
	sixth := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + sixth*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}
	return result
}
