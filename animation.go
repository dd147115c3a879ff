package scrollrig

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// AutoplayMode selects how an Autoplay sweeps progress.
type AutoplayMode uint8

const (
	AutoplayOnce     AutoplayMode = iota // 0 -> 1, then stop
	AutoplayPingPong                     // 0 -> 1 -> 0, then stop
	AutoplayLoop                         // 0 -> 1 -> 0 forever
)

// Autoplay sweeps progress over time without user input. Call Update(dt)
// each frame and feed the result to the rig or to Scroll.ScrollTo.
//
// There is no global animation manager; callers drive Update themselves.
type Autoplay struct {
	seq   *gween.Sequence
	mode  AutoplayMode
	value float32
	Done  bool
}

// NewAutoplay creates an autoplay whose forward sweep lasts duration seconds
// and is shaped by fn. A nil fn selects inOutCubic.
func NewAutoplay(duration float32, fn ease.TweenFunc, mode AutoplayMode) *Autoplay {
	if fn == nil {
		fn = ease.InOutCubic
	}
	seq := gween.NewSequence(gween.New(0, 1, duration, fn))
	if mode != AutoplayOnce {
		seq.Add(gween.New(1, 0, duration, fn))
	}
	if mode == AutoplayLoop {
		// A negative count never reaches zero.
		seq.SetLoop(-1)
	}
	return &Autoplay{seq: seq, mode: mode}
}

// Update advances the sweep by dt seconds and returns the current progress.
func (a *Autoplay) Update(dt float32) float32 {
	if a.Done {
		return a.value
	}
	v, _, complete := a.seq.Update(dt)
	a.value = Clamp01(v)
	// A loop can report completion when a frame lands exactly on a wrap.
	a.Done = complete && a.mode != AutoplayLoop
	return a.value
}

// Value returns the current progress.
func (a *Autoplay) Value() float32 {
	return a.value
}

// Reset rewinds the sweep to the start.
func (a *Autoplay) Reset() {
	a.seq.Reset()
	a.value = 0
	a.Done = false
}
