// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package simulate

import (
	"math/rand/v2"
	"sync"
	"time"
)

// =============================================================================
// TIMING
// =============================================================================

// Timing holds the tick intervals of the two simulation loops.
type Timing struct {
	// StatusInterval is how often the status line advances (default 2s).
	StatusInterval time.Duration

	// ProgressInterval is how often the progress value advances (default 300ms).
	ProgressInterval time.Duration
}

// DefaultTiming returns the standard tick intervals.
func DefaultTiming() Timing {
	return Timing{
		StatusInterval:   2000 * time.Millisecond,
		ProgressInterval: 300 * time.Millisecond,
	}
}

func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.StatusInterval <= 0 {
		t.StatusInterval = d.StatusInterval
	}
	if t.ProgressInterval <= 0 {
		t.ProgressInterval = d.ProgressInterval
	}
	return t
}

// globalRand adapts the goroutine-safe top-level math/rand/v2 functions.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// =============================================================================
// SESSION
// =============================================================================

// Session is one running cosmetic simulation. It owns both tickers and the
// Simulation they drive; nothing else mutates that state.
//
// Every exit path of an upload attempt must call Stop or Complete. Both are
// idempotent and wait for the tickers to exit.
type Session struct {
	mu      sync.Mutex
	sim     *Simulation
	rng     Rand
	stopped bool

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	pubMu   sync.Mutex
	updates chan Snapshot
	closed  bool
}

// Start creates a session at 0% showing the first phase and starts both
// loops. A nil rng uses math/rand/v2.
func Start(script Script, timing Timing, rng Rand) (*Session, error) {
	sim, err := NewSimulation(script)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = globalRand{}
	}
	timing = timing.withDefaults()

	s := &Session{
		sim:     sim,
		rng:     rng,
		stop:    make(chan struct{}),
		updates: make(chan Snapshot, 1),
	}

	s.wg.Add(2)
	go s.loop(timing.StatusInterval, s.sim.StepStatus)
	go s.loop(timing.ProgressInterval, func() { s.sim.StepProgress(s.rng) })

	return s, nil
}

// Updates delivers snapshots as the loops tick. Only the latest snapshot is
// buffered; a slow reader skips intermediate frames. The channel is closed
// when the session stops.
func (s *Session) Updates() <-chan Snapshot {
	return s.updates
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim.Snapshot()
}

// Stopped reports whether Stop or Complete has been called.
func (s *Session) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Stop cancels both loops and waits for them. The progress value is left
// where it was.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.mu.Unlock()

		close(s.stop)
		s.wg.Wait()

		s.pubMu.Lock()
		// Drop a frame that was queued before the stop.
		select {
		case <-s.updates:
		default:
		}
		s.closed = true
		close(s.updates)
		s.pubMu.Unlock()
	})
}

// Complete stops both loops, forces the progress to exactly 100 and sets the
// status line to text.
func (s *Session) Complete(text string) Snapshot {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim.Complete(text)
	return s.sim.Snapshot()
}

func (s *Session) loop(interval time.Duration, step func()) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.stopped {
				s.mu.Unlock()
				return
			}
			step()
			// Publishing under mu keeps frames from the two loops in order.
			s.publish(s.sim.Snapshot())
			s.mu.Unlock()
		}
	}
}

func (s *Session) publish(snap Snapshot) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	if s.closed {
		return
	}
	select {
	case s.updates <- snap:
		return
	default:
	}
	// Replace the stale frame.
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- snap:
	default:
	}
}
