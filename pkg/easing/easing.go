// Package easing provides the curves that map linear time progress to
// perceptual progress. Every curve is a pure function from [0,1] to [0,1]
// with f(0) = 0 and f(1) = 1.
package easing

import "fmt"

// Kind selects an easing curve.
type Kind int

const (
	// Linear maps progress to itself.
	Linear Kind = iota

	// OutCubic decelerates toward the end value.
	OutCubic

	// InOutCubic accelerates, then decelerates, symmetric around the
	// midpoint.
	InOutCubic

	// OutBounce decelerates with three diminishing bounce ripples.
	OutBounce
)

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case OutCubic:
		return "out-cubic"
	case InOutCubic:
		return "in-out-cubic"
	case OutBounce:
		return "out-bounce"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Parse returns the Kind named by s, using the names produced by String.
func Parse(s string) (Kind, error) {
	switch s {
	case "linear":
		return Linear, nil
	case "out-cubic":
		return OutCubic, nil
	case "in-out-cubic":
		return InOutCubic, nil
	case "out-bounce":
		return OutBounce, nil
	default:
		return 0, fmt.Errorf("unknown easing kind: %q", s)
	}
}

// Func maps linear time progress in [0,1] to eased progress.
type Func func(t float64) float64

// Func returns the curve for the kind. Callers resolve the kind once at
// construction time and store the result, so no dispatch happens per frame.
func (k Kind) Func() (Func, error) {
	switch k {
	case Linear:
		return linear, nil
	case OutCubic:
		return outCubic, nil
	case InOutCubic:
		return inOutCubic, nil
	case OutBounce:
		return outBounce, nil
	default:
		return nil, fmt.Errorf("unknown easing kind: %d", int(k))
	}
}

func linear(t float64) float64 {
	return t
}

func outCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

func inOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// Reference bounce coefficients, kept verbatim. The breakpoints and segment
// constants define the behavioral contract; re-deriving them would drift
// the curve.
const (
	bounceN1 = 7.5625
	bounceD1 = 2.75
)

func outBounce(t float64) float64 {
	switch {
	case t < 1/bounceD1:
		return bounceN1 * t * t
	case t < 2/bounceD1:
		t -= 1.5 / bounceD1
		return bounceN1*t*t + 0.75
	case t < 2.5/bounceD1:
		t -= 2.25 / bounceD1
		return bounceN1*t*t + 0.9375
	default:
		t -= 2.625 / bounceD1
		return bounceN1*t*t + 0.984375
	}
}
