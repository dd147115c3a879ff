package scrollrig

// SegmentSample is the result of resolving a progress value against the
// timeline's cut list.
type SegmentSample struct {
	// Progress is the clamped input.
	Progress float32
	// Index is the active segment.
	Index int
	// Local is the raw position inside the segment, in [0, 1].
	Local float32
	// Factor is Local after the transition zone and easing, in [0, 1].
	Factor float32
}

// ResolveSegment finds the segment i with cuts[i] <= u <= cuts[i+1] and the
// raw local factor inside it. u is clamped to [0, 1]. On a shared boundary
// the earlier segment wins. A zero-width segment yields t = 0.
func ResolveSegment(cuts []float32, u float32) (int, float32) {
	u = Clamp01(u)
	last := len(cuts) - 2
	if last < 0 {
		return 0, 0
	}
	i := last
	for k := 0; k <= last; k++ {
		if u <= cuts[k+1] {
			i = k
			break
		}
	}
	width := cuts[i+1] - cuts[i]
	if width <= degenerateWidth {
		return i, 0
	}
	return i, Clamp01((u - cuts[i]) / width)
}

// transitionFactor compresses eased motion into the leading zone fraction of
// a segment and holds the end pose for the remainder.
func transitionFactor(p, zone float32, fn func(float32) float32) float32 {
	switch {
	case p <= 0:
		return 0
	case p < zone:
		return fn(p / zone)
	default:
		return 1
	}
}

// Resolve maps progress to the active segment and its eased local factor.
func (tl *Timeline) Resolve(u float32) SegmentSample {
	u = Clamp01(u)
	i, t := ResolveSegment(tl.cuts, u)
	f := transitionFactor(t, tl.transitionZone, tl.easeUnit)
	return SegmentSample{Progress: u, Index: i, Local: t, Factor: f}
}

func (tl *Timeline) easeUnit(t float32) float32 {
	return applyEase(tl.ease, t)
}
