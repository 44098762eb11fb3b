package scribble

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// SceneDirector coordinates every stick in the scene.
//
// The director owns the authoritative mapping from stick identity to its last
// published trail, guarded by one coarse read-write lock; contention is fine
// because each critical section copies at most TrailCap segments. Each
// autonomous stick runs its own tick-gated goroutine and is that goroutine's
// exclusive property until publish time; the director only ever sees
// published copies.
//
// The single interactive stick is driven synchronously by pointer events. It
// deliberately bypasses the scene lock (one writer on the pointer path, one
// reader on the render path) and carries its own small mutex instead, so a
// mid-drag snapshot shows at worst a stale trail, never a torn one.
//
// Example usage:
//
//	director := scribble.NewSceneDirector(bounds).
//		Cast(3).
//		Start()
//	defer director.Stop()
//
//	go func() {
//		for range director.Redraw() {
//			render(director.TakeSnapshot())
//		}
//	}()
type SceneDirector struct {
	ctx    context.Context
	cancel context.CancelFunc
	config SceneConfig

	// Scene state, behind the scene lock
	mu        sync.RWMutex
	sticks    []*Stick
	published [][]Segment
	bounds    Bounds
	running   int // sticks whose loops have been launched

	// Interactive stick, behind its own lock (see type comment)
	cursorMu sync.Mutex
	cursor   *Stick
	rng      *rand.Rand

	gate *pauseGate
	wg   sync.WaitGroup

	// Redraw requests are coalesced: a full buffer means a redraw is
	// already pending and the new request can be dropped.
	redraw chan struct{}

	// Synchronization counters (atomic)
	stepsComputed     int64
	segmentsPublished int64
	redrawsRequested  int64
	redrawsCoalesced  int64
	handOffs          int64

	// Coordinator event log
	actionsMu sync.Mutex
	actions   []SceneAction

	startTime time.Time
	started   bool
	stopped   atomic.Bool
}

// NewSceneDirector creates a SceneDirector with default configuration for
// the given canvas bounds.
//
// The director starts empty: call Cast to seed autonomous sticks, Start to
// begin animating, and feed pointer events to grow the scene interactively.
func NewSceneDirector(bounds Bounds) *SceneDirector {
	return NewSceneDirectorWithConfig(bounds, DefaultSceneConfig())
}

// NewSceneDirectorWithConfig creates a SceneDirector with custom
// configuration. Most callers want NewSceneDirector; configuration exists
// for deterministic tests and unusual hosts.
func NewSceneDirectorWithConfig(bounds Bounds, config SceneConfig) *SceneDirector {
	if config.RedrawBuffer <= 0 {
		config.RedrawBuffer = DefaultSceneConfig().RedrawBuffer
	}
	if config.JoinGrace <= 0 {
		config.JoinGrace = DefaultSceneConfig().JoinGrace
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithCancel(context.Background())
	rng := rand.New(rand.NewSource(seed))

	return &SceneDirector{
		ctx:    ctx,
		cancel: cancel,
		config: config,
		bounds: bounds,
		cursor: newStick(rng),
		rng:    rng,
		gate:   newPauseGate(),
		redraw: make(chan struct{}, config.RedrawBuffer),
	}
}

// Cast seeds n autonomous sticks at random in-bounds positions, so the scene
// animates before the first drag. Hand-off from the interactive stick remains
// the canonical way sticks are born; Cast exists for the front-ends.
func (d *SceneDirector) Cast(n int) *SceneDirector {
	if n <= 0 || d.stopped.Load() {
		return d
	}

	bounds := d.CurrentBounds()
	fresh := make([]*Stick, n)
	d.cursorMu.Lock() // rng shares the pointer path's lock
	for i := range fresh {
		s := newStick(d.rng)
		s.scatter(d.rng, bounds)
		fresh[i] = s
	}
	d.cursorMu.Unlock()

	d.mu.Lock()
	for _, s := range fresh {
		s.index = len(d.sticks)
		d.sticks = append(d.sticks, s)
		d.published = append(d.published, s.Trail())
		if d.started {
			d.launch(s)
		}
	}
	d.mu.Unlock()

	d.recordAction("cast", n)
	return d
}

// Start launches the update loop of every stick cast so far. Sticks handed
// off after Start get their loops immediately.
func (d *SceneDirector) Start() *SceneDirector {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return d
	}
	d.started = true
	d.startTime = time.Now()
	for _, s := range d.sticks[d.running:] {
		d.launch(s)
	}
	return d
}

// launch starts one stick's loop. Caller holds the scene lock.
func (d *SceneDirector) launch(s *Stick) {
	d.wg.Add(1)
	d.running++
	go d.runStick(s)
}

// runStick is the autonomous update loop: Computing on each tick, Ready once
// the step lands, Published after the trail copy reaches the scene. The tick
// is suspended while the scene is paused (the ticker stops rather than firing
// into the void) and the loop exits once the quit signal is observed.
func (d *SceneDirector) runStick(s *Stick) {
	defer d.wg.Done()

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			if d.gate.IsPaused() {
				ticker.Stop()
				if !d.gate.Wait(d.ctx) {
					return
				}
				ticker.Reset(TickInterval)
				continue
			}

			s.Advance(d.CurrentBounds())
			atomic.AddInt64(&d.stepsComputed, 1)
			d.publish(s)
		}
	}
}

// publish replaces the stick's slot in the shared collection with a fresh
// copy of its trail and requests a redraw. Atomic with respect to concurrent
// snapshot reads.
func (d *SceneDirector) publish(s *Stick) {
	trail := s.Trail()

	d.mu.Lock()
	d.published[s.index] = trail
	d.mu.Unlock()

	s.ready = false
	atomic.AddInt64(&d.segmentsPublished, int64(len(trail)))
	d.requestRedraw()
}

// requestRedraw signals the host layer without ever blocking an update loop.
func (d *SceneDirector) requestRedraw() {
	atomic.AddInt64(&d.redrawsRequested, 1)
	select {
	case d.redraw <- struct{}{}:
	default:
		atomic.AddInt64(&d.redrawsCoalesced, 1)
	}
}

// Redraw returns the channel the host layer should drain to learn when the
// scene changed. Requests are coalesced while the host is busy drawing.
func (d *SceneDirector) Redraw() <-chan struct{} {
	return d.redraw
}

// TakeSnapshot returns a point-in-time copy of every trail in the scene,
// safe to hold while the animation continues.
func (d *SceneDirector) TakeSnapshot() SceneSnapshot {
	d.mu.RLock()
	sticks := make([][]Segment, len(d.published))
	for i, trail := range d.published {
		sticks[i] = append([]Segment(nil), trail...)
	}
	d.mu.RUnlock()

	d.cursorMu.Lock()
	cursor := d.cursor.Trail()
	d.cursorMu.Unlock()

	return SceneSnapshot{Sticks: sticks, Cursor: cursor, Taken: time.Now()}
}

// SetBounds updates the canvas extent after a host resize. Sticks outside
// the new bounds walk themselves back in through the normal border policy.
func (d *SceneDirector) SetBounds(b Bounds) {
	d.mu.Lock()
	d.bounds = b
	d.mu.Unlock()
}

// CurrentBounds returns the canvas extent the sticks currently honor.
func (d *SceneDirector) CurrentBounds() Bounds {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.bounds
}

// StickCount returns the number of autonomous sticks in the scene.
func (d *SceneDirector) StickCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sticks)
}

// PointerDrag advances the interactive stick toward the pointer. Call it for
// every pointer-motion event while the primary button is down.
func (d *SceneDirector) PointerDrag(p Point) {
	d.cursorMu.Lock()
	d.cursor.Drag(p)
	d.cursorMu.Unlock()
	d.requestRedraw()
}

// PointerRelease promotes the dragged stick to a new autonomous stick: the
// cursor's kinematic state and trail are deep-copied under the next free
// identity, its loop starts, and the interactive stick resets to the origin
// for reuse. A release without a drag in progress is a no-op.
func (d *SceneDirector) PointerRelease() {
	d.cursorMu.Lock()
	if !d.cursor.Dragging() || d.ctx.Err() != nil {
		d.cursorMu.Unlock()
		return
	}

	d.mu.Lock()
	born := d.cursor.cloneForHandOff(len(d.sticks))
	d.sticks = append(d.sticks, born)
	d.published = append(d.published, born.Trail())
	if d.started {
		d.launch(born)
	}
	d.mu.Unlock()

	d.cursor.reset(d.rng)
	d.cursorMu.Unlock()

	atomic.AddInt64(&d.handOffs, 1)
	d.recordAction("hand_off", born.Index())
	d.requestRedraw()
}

// SecondaryPress suspends every autonomous stick while the secondary button
// is held. The per-stick tickers stop outright; no segments are computed or
// published until release.
func (d *SceneDirector) SecondaryPress() {
	d.gate.Pause()
	d.recordAction("pause", nil)
}

// SecondaryRelease resumes the suspended scene.
func (d *SceneDirector) SecondaryRelease() {
	d.gate.Resume()
	d.recordAction("resume", nil)
}

// Paused reports whether the scene is currently suspended.
func (d *SceneDirector) Paused() bool {
	return d.gate.IsPaused()
}

// Stop tears the scene down: the quit signal is raised once, parked loops
// are woken so they can observe it, and Stop blocks until every loop has
// exited. No goroutine touches the shared collection after Stop returns.
// Each loop observes the signal within one tick interval.
func (d *SceneDirector) Stop() *SceneResult {
	if d.stopped.Swap(true) {
		return &SceneResult{
			Success:      false,
			ErrorMessage: "scene already stopped",
		}
	}

	d.recordAction("stop", nil)
	d.cancel()
	d.gate.Resume()

	joined := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(joined)
	}()

	success := true
	errorMessage := ""
	select {
	case <-joined:
	case <-time.After(d.config.JoinGrace):
		success = false
		errorMessage = fmt.Sprintf("teardown timed out after %v waiting for stick loops", d.config.JoinGrace)
	}

	duration := time.Duration(0)
	if !d.startTime.IsZero() {
		duration = time.Since(d.startTime)
	}

	d.actionsMu.Lock()
	actions := append([]SceneAction(nil), d.actions...)
	d.actionsMu.Unlock()

	return &SceneResult{
		Actions:      actions,
		Duration:     duration,
		Sticks:       d.StickCount(),
		Stats:        d.Stats(),
		Success:      success,
		ErrorMessage: errorMessage,
	}
}

// Stats returns the current synchronization counters.
func (d *SceneDirector) Stats() map[string]int64 {
	return map[string]int64{
		"steps_computed":     atomic.LoadInt64(&d.stepsComputed),
		"segments_published": atomic.LoadInt64(&d.segmentsPublished),
		"redraws_requested":  atomic.LoadInt64(&d.redrawsRequested),
		"redraws_coalesced":  atomic.LoadInt64(&d.redrawsCoalesced),
		"hand_offs":          atomic.LoadInt64(&d.handOffs),
		"sticks":             int64(d.StickCount()),
	}
}

// HasCoalescedRedraws reports whether any redraw request was dropped because
// one was already pending. Expected during normal operation; useful when
// tuning a slow host layer.
func (d *SceneDirector) HasCoalescedRedraws() bool {
	return atomic.LoadInt64(&d.redrawsCoalesced) > 0
}

// ResetMetrics zeroes the synchronization counters (useful in benchmarks).
func (d *SceneDirector) ResetMetrics() {
	atomic.StoreInt64(&d.stepsComputed, 0)
	atomic.StoreInt64(&d.segmentsPublished, 0)
	atomic.StoreInt64(&d.redrawsRequested, 0)
	atomic.StoreInt64(&d.redrawsCoalesced, 0)
	atomic.StoreInt64(&d.handOffs, 0)
}

// recordAction appends a coordinator event when the log is enabled.
func (d *SceneDirector) recordAction(actionType string, details interface{}) {
	if !d.config.RecordActions {
		return
	}
	d.actionsMu.Lock()
	d.actions = append(d.actions, SceneAction{
		Timestamp: time.Now(),
		Type:      actionType,
		Details:   details,
	})
	d.actionsMu.Unlock()
}

// Summary renders a one-line description of the session for logs and the
// gallery metadata block.
func (r *SceneResult) Summary() string {
	status := "clean"
	if !r.Success {
		status = r.ErrorMessage
	}
	return fmt.Sprintf("%d sticks, %d segments published, %d hand-offs in %v (%s)",
		r.Sticks, r.Stats["segments_published"], r.Stats["hand_offs"], r.Duration.Round(time.Millisecond), status)
}
