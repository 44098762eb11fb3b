package scribble

import (
	"math"
	"math/rand"
)

// Stick is one animated figure: kinematic state plus the bounded trail of
// segments it has emitted. A stick is created blank, gains its heading from
// drag input or casting, and from then on advances one fixed-distance step at
// a time, reflecting off the canvas borders.
//
// A Stick carries no synchronization of its own. An autonomous stick is owned
// exclusively by its update goroutine until publish time; the interactive
// stick is guarded by the SceneDirector.
type Stick struct {
	index int // identity within the scene, assigned once at hand-off

	current  Point // trajectory head
	previous Point // with current, defines the heading

	segLength int  // half-length of emitted segments, within [Min,Max]
	segAngle  int  // emission angle in degrees, within [0,AngleLimit)
	growing   bool // direction of the length oscillation

	trail []Segment // bounded FIFO, oldest first

	ready    bool // a step has been computed but not yet published
	dragging bool // the interactive stick has received its first sample
}

// newStick creates a blank stick. The only randomness in a stick's life
// happens here: initial segment length in [MinSegmentLength,MaxSegmentLength)
// and angle in [0,AngleLimit). The length oscillation starts in the shrinking
// direction even when the stick is born near the lower bound, a quirk of the
// original behavior kept rather than corrected.
func newStick(rng *rand.Rand) *Stick {
	return &Stick{
		segLength: MinSegmentLength + rng.Intn(MaxSegmentLength-MinSegmentLength),
		segAngle:  rng.Intn(AngleLimit),
		growing:   false,
		trail:     make([]Segment, 0, TrailCap),
	}
}

// Index returns the stick's identity within the scene.
func (s *Stick) Index() int { return s.index }

// Trail returns a copy of the trailing segment sequence, oldest first.
func (s *Stick) Trail() []Segment {
	return append([]Segment(nil), s.trail...)
}

// Heading returns the stick's travel direction in radians, derived from the
// previous and current trajectory points.
func (s *Stick) Heading() float64 {
	return math.Atan2(float64(s.current.Y-s.previous.Y), float64(s.current.X-s.previous.X))
}

// Advance moves the stick one step within b: project a candidate point a
// fixed distance along the heading, land exactly on a border if the candidate
// would exit, then oscillate the segment length, rotate the emission angle,
// and append one new segment centered on the trajectory head.
//
// Advance is deterministic given the stick's state. It marks the stick ready;
// the caller publishes the trail and clears readiness.
func (s *Stick) Advance(b Bounds) {
	heading := s.Heading()
	sin, cos := math.Sincos(heading)
	candidate := Point{
		X: s.current.X + int(StepDistance*cos),
		Y: s.current.Y + int(StepDistance*sin),
	}

	// Border policy: do not clamp. Re-project using the exact remaining
	// distance so the head lands on the border, and mirror the previous
	// point across the border line so the next heading points back inward.
	// Exactly one border resolves per step, in left/right/top/bottom order.
	switch {
	case candidate.X < 0:
		s.current = Point{X: 0, Y: s.current.Y + travel(-s.current.X, sin, cos)}
		s.previous.X = -s.previous.X
	case candidate.X > b.Width:
		s.current = Point{X: b.Width, Y: s.current.Y + travel(b.Width-s.current.X, sin, cos)}
		s.previous.X = 2*b.Width - s.previous.X
	case candidate.Y < 0:
		s.current = Point{X: s.current.X + travel(-s.current.Y, cos, sin), Y: 0}
		s.previous.Y = -s.previous.Y
	case candidate.Y > b.Height:
		s.current = Point{X: s.current.X + travel(b.Height-s.current.Y, cos, sin), Y: b.Height}
		s.previous.Y = 2*b.Height - s.previous.Y
	default:
		s.previous = s.current
		s.current = candidate
	}

	s.stepLengthAndAngle()
	s.emitSegment()
	s.ready = true
}

// travel resolves the cross-axis displacement for a border landing: the head
// must cover delta along the crossed axis, whose heading component is
// crossed; the other axis moves proportionally by its component other. A zero
// crossed component only happens when the head is already outside the bounds
// (the host shrank the canvas), in which case the head lands on the border
// with no cross-axis movement.
func travel(delta int, other, crossed float64) int {
	if crossed == 0 {
		return 0
	}
	return int(float64(delta) / crossed * other)
}

// Drag advances the interactive stick from consecutive pointer samples. The
// first sample anchors both trajectory points; each later sample farther than
// the fixed step distance becomes the new head and emits a segment exactly
// like an autonomous step, minus the border policy: the pointer cannot leave
// the canvas.
func (s *Stick) Drag(p Point) {
	if !s.dragging {
		s.dragging = true
		s.current, s.previous = p, p
		return
	}
	dx := float64(p.X - s.current.X)
	dy := float64(p.Y - s.current.Y)
	if math.Hypot(dx, dy) <= StepDistance {
		return
	}
	s.previous = s.current
	s.current = p
	s.stepLengthAndAngle()
	s.emitSegment()
}

// Dragging reports whether a drag is in progress.
func (s *Stick) Dragging() bool { return s.dragging }

// stepLengthAndAngle runs the per-step oscillation: length moves by
// SegmentLengthStep toward the active bound and only flips direction on the
// step that touches it; angle advances by AngleStep and wraps to 0 at
// AngleLimit.
func (s *Stick) stepLengthAndAngle() {
	if s.growing {
		if s.segLength < MaxSegmentLength {
			s.segLength += SegmentLengthStep
		} else {
			s.growing = false
		}
	} else {
		if s.segLength > MinSegmentLength {
			s.segLength -= SegmentLengthStep
		} else {
			s.growing = true
		}
	}

	s.segAngle += AngleStep
	if s.segAngle >= AngleLimit {
		s.segAngle = 0
	}
}

// emitSegment appends one segment centered on the trajectory head, endpoints
// projected segLength units out at segAngle and its opposite. Evicts the
// oldest segment beyond TrailCap.
func (s *Stick) emitSegment() {
	a := project(s.current, float64(s.segAngle), float64(s.segLength))
	b := project(s.current, float64(s.segAngle+180), float64(s.segLength))
	s.trail = append(s.trail, Segment{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y})
	if len(s.trail) > TrailCap {
		s.trail = s.trail[1:]
	}
}

// project returns the point dist units from p at the given angle in degrees,
// via the parametric circle form.
func project(p Point, degrees, dist float64) Point {
	rad := degrees * math.Pi / 180
	return Point{
		X: p.X + int(dist*math.Cos(rad)),
		Y: p.Y + int(dist*math.Sin(rad)),
	}
}

// cloneForHandOff copies the stick's kinematic state and trail into a fresh
// autonomous stick with the given identity. The trail is a deep copy: after
// hand-off the two sticks share nothing.
func (s *Stick) cloneForHandOff(index int) *Stick {
	return &Stick{
		index:     index,
		current:   s.current,
		previous:  s.previous,
		segLength: s.segLength,
		segAngle:  s.segAngle,
		growing:   s.growing,
		trail:     append(make([]Segment, 0, TrailCap), s.trail...),
	}
}

// reset returns the interactive stick to its blank origin state for reuse,
// re-rolling the construction-time length and angle.
func (s *Stick) reset(rng *rand.Rand) {
	s.current = Point{}
	s.previous = Point{}
	s.segLength = MinSegmentLength + rng.Intn(MaxSegmentLength-MinSegmentLength)
	s.segAngle = rng.Intn(AngleLimit)
	s.growing = false
	s.trail = s.trail[:0]
	s.dragging = false
	s.ready = false
}

// scatter places a freshly cast stick at a random in-bounds position with a
// random heading, as if it had just been handed off there.
func (s *Stick) scatter(rng *rand.Rand, b Bounds) {
	s.current = Point{X: rng.Intn(b.Width + 1), Y: rng.Intn(b.Height + 1)}
	back := project(s.current, float64(rng.Intn(360)), StepDistance)
	s.previous = back
}
