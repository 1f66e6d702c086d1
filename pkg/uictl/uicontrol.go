// Package uictl defines small read-only control surfaces that views can poll
// without knowing what sits behind them.
package uictl

import "golang.org/x/exp/constraints"

type Number interface {
	constraints.Integer | constraints.Float
}

// Dial is a control that can read some value.
type Dial[N Number] interface {
	Read() N
}

// CappedDial is a Dial with a maximum cap value.
type CappedDial[N Number] interface {
	Dial[N]
	Cap() (num, max N)
}

// Lamp is an on/off indicator that can only be observed.
type Lamp interface {
	Lit() bool
}

// Ratio returns num/max in [0, 1]; a zero or negative max reads as empty.
func Ratio[N Number](d CappedDial[N]) float64 {
	num, maxValue := d.Cap()
	if maxValue <= 0 {
		return 0
	}

	r := float64(num) / float64(maxValue)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}

	return r
}

// DialFunc adapts a pair of functions to a CappedDial.
type DialFunc[N Number] struct {
	Num func() N
	Max func() N
}

func (d DialFunc[N]) Read() N { return d.Num() }

func (d DialFunc[N]) Cap() (N, N) { return d.Num(), d.Max() }

// LampFunc adapts a function to a Lamp.
type LampFunc func() bool

func (f LampFunc) Lit() bool { return f() }
