package scrollrig

// EntityStore is the interface for optional ECS integration.
// When set on a Scene or Rig, rig events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event RigEvent)
}

// EventType identifies a rig event.
type EventType uint8

const (
	EventSegmentEnter   EventType = iota // progress moved into another segment
	EventPoseHeld                        // computed pose rejected, last good pose kept
	EventFrameRecovered                  // a frame panicked and was abandoned
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventSegmentEnter:
		return "segmentEnter"
	case EventPoseHeld:
		return "poseHeld"
	case EventFrameRecovered:
		return "frameRecovered"
	}
	return "unknown"
}

// RigEvent carries a rig state change for the ECS bridge.
type RigEvent struct {
	Type     EventType
	Progress float32
	Frame    int
	// Segment is the active segment; Previous is the one before an
	// EventSegmentEnter, or -1 on the first frame.
	Segment  int
	Previous int
}
