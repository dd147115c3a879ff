package scrollrig

import (
	"fmt"
	"log/slog"
	"time"
)

// debugStats holds per-frame pass timings and counters.
// Only populated when the rig runs in debug mode.
type debugStats struct {
	resolveTime      time.Duration
	poseTime         time.Duration
	opacityTime      time.Duration
	displacementTime time.Duration
	spinTime         time.Duration
	resolved         int
	clones           int
	writes           int
}

// debugLog reports the frame's timings and counters at debug level.
func (r *Rig) debugLog(progress float32, stats debugStats) {
	if !r.debug {
		return
	}
	total := stats.resolveTime + stats.poseTime + stats.opacityTime + stats.displacementTime + stats.spinTime
	r.logger.Debug("frame",
		"progress", progress,
		"resolve", stats.resolveTime,
		"pose", stats.poseTime,
		"opacity", stats.opacityTime,
		"displacement", stats.displacementTime,
		"spin", stats.spinTime,
		"total", total)
	r.logger.Debug("frame counts",
		"resolved", stats.resolved,
		"clones", stats.clones,
		"writes", stats.writes)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("scrollrig debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		slog.Warn("tree depth exceeds threshold",
			"depth", depth, "threshold", debugMaxTreeDepth, "node", n.Name)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		slog.Warn("child count exceeds threshold",
			"node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
