package scribble

import (
	"context"
	"sync"
	"sync/atomic"
)

// pauseGate suspends the stick loops while the secondary pointer button is
// held. Pausing is a broadcast: every loop parks on the same channel and a
// single Resume releases them all. The gate is injected shared state, not a
// package global, so a process can run independent scenes.
type pauseGate struct {
	mu     sync.Mutex
	paused atomic.Bool
	resume chan struct{} // replaced on every pause, closed on resume
}

func newPauseGate() *pauseGate {
	return &pauseGate{resume: make(chan struct{})}
}

// Pause closes the gate. Idempotent: repeated calls while already paused are
// no-ops, matching a held button delivering repeat events. The fresh resume
// channel is installed before the flag flips so a loop that observes the
// pause always parks on a channel that Resume will close.
func (g *pauseGate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.paused.Load() {
		g.resume = make(chan struct{})
		g.paused.Store(true)
	}
}

// Resume opens the gate and releases every parked loop.
func (g *pauseGate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused.Load() {
		g.paused.Store(false)
		close(g.resume)
	}
}

// IsPaused returns the current gate state.
func (g *pauseGate) IsPaused() bool {
	return g.paused.Load()
}

// Wait parks the caller until the gate opens or ctx is done. Returns false
// when the context won, which the loops treat as the quit signal.
func (g *pauseGate) Wait(ctx context.Context) bool {
	for g.paused.Load() {
		g.mu.Lock()
		resume := g.resume
		g.mu.Unlock()
		if !g.paused.Load() {
			// Resume slipped in between the load and the channel grab.
			return true
		}
		select {
		case <-resume:
		case <-ctx.Done():
			return false
		}
	}
	return true
}
