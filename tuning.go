package scribble

import "time"

// Motion constants. These are deliberately not configurable: together they
// define the screensaver's characteristic gait and every invariant in the
// test suite assumes them.
const (
	// StepDistance is how far a stick travels along its heading per tick,
	// and the drag distance the pointer must cover before the interactive
	// stick takes a step.
	StepDistance = 10

	// TrailCap bounds the trailing segment FIFO. The oldest segment is
	// evicted once the trail would exceed this.
	TrailCap = 20

	// TickInterval gates each autonomous stick's update loop.
	TickInterval = 40 * time.Millisecond

	// Segment half-length oscillates between MinSegmentLength and
	// MaxSegmentLength in SegmentLengthStep increments, reversing at each
	// bound.
	MinSegmentLength  = 10
	MaxSegmentLength  = 50
	SegmentLengthStep = 5

	// Segment angle advances AngleStep degrees per step and wraps to 0 on
	// reaching AngleLimit, so it stays within [0,180).
	AngleStep  = 5
	AngleLimit = 180
)
