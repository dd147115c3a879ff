package preview

// Synthetic input lets scripts and tests drive the preview without devices.
// Each queued event is consumed on one tick and replaces the real input for
// that tick, identical in effect to the matching wheel, key or drag.

// InjectWheel queues a wheel movement. Negative dy scrolls forward.
func (g *Game) InjectWheel(dy float64) {
	g.injectQueue = append(g.injectQueue, inputState{wheel: dy})
}

// InjectPages queues a keyboard page move.
func (g *Game) InjectPages(pages float32) {
	g.injectQueue = append(g.injectQueue, inputState{pages: pages})
}

// InjectHome queues a jump to the first page.
func (g *Game) InjectHome() {
	g.injectQueue = append(g.injectQueue, inputState{home: true})
}

// InjectEnd queues a jump to the last page.
func (g *Game) InjectEnd() {
	g.injectQueue = append(g.injectQueue, inputState{end: true})
}

// InjectDrag queues an orbit drag of (dx, dy) pixels spread evenly over
// frames ticks. Minimum frames is 1.
func (g *Game) InjectDrag(dx, dy float64, frames int) {
	if frames < 1 {
		frames = 1
	}
	for i := 0; i < frames; i++ {
		g.injectQueue = append(g.injectQueue, inputState{
			dragging: true,
			dx:       dx / float64(frames),
			dy:       dy / float64(frames),
		})
	}
}

// popInjected removes and returns the oldest queued event.
func (g *Game) popInjected() (inputState, bool) {
	if len(g.injectQueue) == 0 {
		return inputState{}, false
	}
	evt := g.injectQueue[0]
	copy(g.injectQueue, g.injectQueue[1:])
	g.injectQueue = g.injectQueue[:len(g.injectQueue)-1]
	return evt, true
}
