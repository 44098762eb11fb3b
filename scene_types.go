// Package scribble is an interactive screensaver engine: stick figures made of
// short line segments wander a 2D canvas, bounce off its edges, and breathe by
// continuously varying segment length and angle.
//
// Scribble separates the animation core from the host windowing layer. Each
// autonomous stick advances on its own goroutine; a SceneDirector serializes
// their published trails behind one coarse lock and hands point-in-time
// snapshots to whatever renders them. One interactive stick follows the
// pointer and is promoted to an autonomous stick on release.
//
// Basic usage:
//
//	director := scribble.NewSceneDirector(scribble.Bounds{Width: 800, Height: 600}).
//		Cast(4).
//		Start()
//
//	for range director.Redraw() {
//		draw(director.TakeSnapshot().Segments())
//	}
//
//	result := director.Stop()
//	fmt.Println(result.Summary())
//
// Pointer events from the host layer drive the interactive stick:
//
//	director.PointerDrag(scribble.Point{X: x, Y: y})
//	director.PointerRelease() // hand-off: the drag becomes a wandering stick
//
// The operators package provides ready-made terminal (BubbleTea) and windowed
// (Ebitengine) front-ends built on this contract.
package scribble

import (
	"math"
	"time"
)

// Point is a position on the canvas in integer plane coordinates.
type Point struct {
	X, Y int
}

// Segment is a single drawn line between two endpoints. Immutable once
// emitted into a trail.
type Segment struct {
	X1, Y1, X2, Y2 int
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return math.Hypot(float64(s.X2-s.X1), float64(s.Y2-s.Y1))
}

// Center returns the midpoint of the segment.
func (s Segment) Center() Point {
	return Point{X: (s.X1 + s.X2) / 2, Y: (s.Y1 + s.Y2) / 2}
}

// Bounds is the canvas extent supplied by the host layer. Sticks travel
// within [0,Width] x [0,Height] and reflect off the four borders.
type Bounds struct {
	Width, Height int
}

// Contains reports whether p lies inside the bounds, borders included.
func (b Bounds) Contains(p Point) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}

// SceneSnapshot is a point-in-time copy of every trail in the scene, safe to
// read while the animation keeps running.
type SceneSnapshot struct {
	Sticks [][]Segment // autonomous trails, indexed by stick identity
	Cursor []Segment   // the interactive stick's trail
	Taken  time.Time
}

// Segments flattens the snapshot into one ordered draw list, autonomous
// trails first, the interactive stick on top.
func (s SceneSnapshot) Segments() []Segment {
	total := len(s.Cursor)
	for _, trail := range s.Sticks {
		total += len(trail)
	}
	out := make([]Segment, 0, total)
	for _, trail := range s.Sticks {
		out = append(out, trail...)
	}
	return append(out, s.Cursor...)
}

// SceneAction records a single coordinator-level event for the final result:
// hand-offs, pauses, casting, teardown.
type SceneAction struct {
	Timestamp time.Time
	Type      string      // "cast", "hand_off", "pause", "resume", "stop"
	Details   interface{} // Event-specific details
}

// SceneResult contains the complete results of an animation session.
//
// The result includes coordinator events, timing information, and the final
// synchronization counters. Success is false only when teardown failed to
// join every stick loop within the configured grace period.
type SceneResult struct {
	Actions      []SceneAction    // Coordinator events in order
	Duration     time.Duration    // Wall-clock session length
	Sticks       int              // Autonomous sticks alive at teardown
	Stats        map[string]int64 // Final synchronization counters
	Success      bool             // Whether every loop joined cleanly
	ErrorMessage string           // Human-readable description when not
}

// SceneConfig configures a SceneDirector. The motion constants themselves are
// fixed (see tuning.go); configuration covers only the scene's surroundings.
//
// Example usage:
//
//	config := scribble.SceneConfig{
//		Seed:         42,               // deterministic casting for tests
//		RedrawBuffer: 1,                // coalesce redraw requests
//		JoinGrace:    2 * time.Second,  // teardown patience
//	}
//	director := scribble.NewSceneDirectorWithConfig(bounds, config)
type SceneConfig struct {
	// Seed for the construction-time randomness (initial segment length and
	// angle). Zero means seed from the wall clock.
	Seed int64
	// RedrawBuffer sizes the redraw request channel. Requests beyond the
	// buffer are coalesced, never blocked on.
	RedrawBuffer int
	// JoinGrace bounds how long Stop waits for stick loops to observe the
	// quit signal. Each loop blocks at most one tick interval, so the
	// default leaves a wide margin.
	JoinGrace time.Duration
	// RecordActions enables the coordinator event log in SceneResult.
	RecordActions bool
}

// DefaultSceneConfig returns a SceneConfig with sensible defaults.
func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		Seed:          0,
		RedrawBuffer:  1,
		JoinGrace:     2 * time.Second,
		RecordActions: true,
	}
}
