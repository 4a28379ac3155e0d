package interact

// Easing maps an elapsed fraction in [0,1] to an eased fraction in [0,1].
// Implementations must be monotonic with f(0)=0 and f(1)=1 so animations
// land exactly on their target bounds.
type Easing func(t float64) float64

// EaseLinear is the identity curve.
func EaseLinear(t float64) float64 { return t }

// EaseOutCubic decelerates toward the target; the default zoom feel.
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// EaseOutQuad is a gentler deceleration.
func EaseOutQuad(t float64) float64 {
	return t * (2 - t)
}

// EaseInOutQuad accelerates then decelerates.
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := 1 - t
	return 1 - 2*u*u
}
