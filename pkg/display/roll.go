package display

// Roll computes the vertical offset for the decorative digit-roll counter
// variant: the text starts displaced by Amplitude and settles to zero as
// the tween completes.
type Roll struct {
	// Amplitude is the offset at progress 0, in display units. Zero means
	// DefaultRollAmplitude.
	Amplitude float64
}

// DefaultRollAmplitude is the offset, in display units, that the roll
// variant starts from.
const DefaultRollAmplitude = 12.0

// Offset returns the roll offset for the given linear progress. Progress
// outside [0,1] is clamped; at progress 1 the offset is exactly zero.
func (r Roll) Offset(progress float64) float64 {
	a := r.Amplitude
	if a == 0 {
		a = DefaultRollAmplitude
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return a * (1 - progress)
}
