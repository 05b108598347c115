// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package simulate

import (
	"math"
	"strconv"
)

// =============================================================================
// PROGRESS CURVE
// =============================================================================

const (
	// Cap is the highest value the simulation reaches on its own.
	Cap = 99.0

	// Done is the value forced when the real request succeeds.
	Done = 100.0

	fastBand = 50.0
	slowBand = 90.0

	fastStep  = 5.0
	slowStep  = 1.5
	crawlStep = 0.1
)

// Rand is the source of randomness for progress increments.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NextProgress returns the value after one progress tick.
//
// Below 50 it adds a random amount up to 5, below 90 up to 1.5, below 99 a
// fixed 0.1. At 99 it holds. The result is clamped to 99.
func NextProgress(value float64, rng Rand) float64 {
	switch {
	case value < fastBand:
		value += rng.Float64() * fastStep
	case value < slowBand:
		value += rng.Float64() * slowStep
	case value < Cap:
		value += crawlStep
	}
	if value > Cap {
		value = Cap
	}
	return value
}

// FormatPercent renders a progress value as its floor followed by "%".
func FormatPercent(value float64) string {
	return strconv.Itoa(int(math.Floor(value))) + "%"
}

// =============================================================================
// SIMULATION STATE
// =============================================================================

// Snapshot is an immutable view of the simulation for renderers.
type Snapshot struct {
	// Value is the unrounded progress, used for the bar width.
	Value float64

	// Percent is the displayed label, e.g. "42%".
	Percent string

	// Status is the current status line.
	Status string

	// Complete is set once the real request succeeded and Value is 100.
	Complete bool
}

// Fraction returns Value scaled to [0,1] for progress bar widgets.
func (s Snapshot) Fraction() float64 {
	return s.Value / 100
}

// Simulation holds the progress scalar and status cursor for one attempt.
// It is not safe for concurrent use; Session serializes access.
type Simulation struct {
	script   Script
	value    float64
	index    int
	status   string
	complete bool
}

// NewSimulation creates a simulation at 0% showing the first phase.
func NewSimulation(script Script) (*Simulation, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{script: script.Clone()}
	s.status = s.script.Phase(0)
	return s, nil
}

// StepProgress advances the progress scalar by one tick.
func (s *Simulation) StepProgress(rng Rand) {
	if s.complete {
		return
	}
	s.value = NextProgress(s.value, rng)
}

// StepStatus advances to the next phase, wrapping after the last.
func (s *Simulation) StepStatus() {
	if s.complete {
		return
	}
	s.index = s.script.Next(s.index)
	s.status = s.script.Phase(s.index)
}

// Complete forces the progress to exactly 100 and shows the completion text.
func (s *Simulation) Complete(status string) {
	s.value = Done
	s.status = status
	s.complete = true
}

// Snapshot returns the current state.
func (s *Simulation) Snapshot() Snapshot {
	return Snapshot{
		Value:    s.value,
		Percent:  FormatPercent(s.value),
		Status:   s.status,
		Complete: s.complete,
	}
}
