// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package simulate

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand always returns the same sample.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(42, 7))
}

// =============================================================================
// SCRIPT TESTS
// =============================================================================

func TestDefaultScript_HasSevenPhases(t *testing.T) {
	assert.Len(t, DefaultScript, 7)
	assert.NoError(t, DefaultScript.Validate())
}

func TestScript_Wraparound(t *testing.T) {
	s := Script{"a", "b", "c"}

	i := 0
	var seen []string
	for n := 0; n < 7; n++ {
		seen = append(seen, s.Phase(i))
		i = s.Next(i)
	}
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c", "a"}, seen)
	assert.Equal(t, "c", s.Phase(-1))
}

func TestScript_Empty(t *testing.T) {
	var s Script
	assert.ErrorIs(t, s.Validate(), ErrEmptyScript)
	assert.Equal(t, "", s.Phase(3))

	_, err := NewSimulation(s)
	assert.ErrorIs(t, err, ErrEmptyScript)
}

// =============================================================================
// PROGRESS CURVE TESTS
// =============================================================================

func TestNextProgress_Bands(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		rng   Rand
		want  float64
	}{
		{"fast band max", 10, fixedRand(1), 15},
		{"fast band half", 0, fixedRand(0.5), 2.5},
		{"slow band", 60, fixedRand(1), 61.5},
		{"slow band half", 50, fixedRand(0.5), 50.75},
		{"crawl band ignores rng", 95, fixedRand(1), 95.1},
		{"held at cap", 99, fixedRand(1), 99},
		{"fast band near boundary", 49, fixedRand(1), 54},
		{"slow band into crawl band", 89.5, fixedRand(1), 91},
		{"clamped from crawl band", 98.95, fixedRand(0), 99},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NextProgress(tc.value, tc.rng)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestNextProgress_NeverExceedsCap(t *testing.T) {
	rng := seeded()
	v := 0.0
	for i := 0; i < 5000; i++ {
		next := NextProgress(v, rng)
		require.GreaterOrEqual(t, next, v, "tick %d decreased progress", i)
		require.LessOrEqual(t, next, Cap, "tick %d crossed the cap", i)
		v = next
	}
	assert.Equal(t, Cap, v, "progress should settle at the cap")
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "0%"},
		{42.9, "42%"},
		{98.99, "98%"},
		{99, "99%"},
		{100, "100%"},
	}

	for _, tc := range tests {
		if got := FormatPercent(tc.value); got != tc.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

// =============================================================================
// SIMULATION TESTS
// =============================================================================

func TestSimulation_StartsAtZero(t *testing.T) {
	sim, err := NewSimulation(DefaultScript)
	require.NoError(t, err)

	snap := sim.Snapshot()
	assert.Equal(t, 0.0, snap.Value)
	assert.Equal(t, "0%", snap.Percent)
	assert.Equal(t, DefaultScript[0], snap.Status)
	assert.False(t, snap.Complete)
}

func TestSimulation_StatusCycles(t *testing.T) {
	sim, err := NewSimulation(Script{"one", "two"})
	require.NoError(t, err)

	sim.StepStatus()
	assert.Equal(t, "two", sim.Snapshot().Status)
	sim.StepStatus()
	assert.Equal(t, "one", sim.Snapshot().Status)
}

func TestSimulation_BarUsesUnroundedValue(t *testing.T) {
	sim, err := NewSimulation(DefaultScript)
	require.NoError(t, err)

	sim.StepProgress(fixedRand(0.5)) // 2.5
	snap := sim.Snapshot()
	assert.Equal(t, "2%", snap.Percent)
	assert.InDelta(t, 0.025, snap.Fraction(), 1e-9)
}

func TestSimulation_CompleteFreezesState(t *testing.T) {
	sim, err := NewSimulation(DefaultScript)
	require.NoError(t, err)

	sim.StepProgress(fixedRand(1))
	sim.Complete("Process complete!")

	sim.StepProgress(fixedRand(1))
	sim.StepStatus()

	snap := sim.Snapshot()
	assert.Equal(t, 100.0, snap.Value)
	assert.Equal(t, "100%", snap.Percent)
	assert.Equal(t, "Process complete!", snap.Status)
	assert.True(t, snap.Complete)
}

func TestSimulation_ScriptIsCopied(t *testing.T) {
	script := Script{"a", "b"}
	sim, err := NewSimulation(script)
	require.NoError(t, err)

	script[1] = "changed"
	sim.StepStatus()
	assert.Equal(t, "b", sim.Snapshot().Status)
}

// =============================================================================
// SESSION TESTS
// =============================================================================

func fastTiming() Timing {
	return Timing{
		StatusInterval:   5 * time.Millisecond,
		ProgressInterval: time.Millisecond,
	}
}

func TestSession_ProgressIsMonotonicAndCapped(t *testing.T) {
	s, err := Start(DefaultScript, fastTiming(), seeded())
	require.NoError(t, err)
	defer s.Stop()

	last := 0.0
	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		snap := s.Snapshot()
		require.GreaterOrEqual(t, snap.Value, last)
		require.LessOrEqual(t, snap.Value, Cap)
		require.False(t, snap.Complete)
		last = snap.Value
		time.Sleep(2 * time.Millisecond)
	}
	assert.Greater(t, last, 0.0, "progress should have advanced")
}

func TestSession_UpdatesAreMonotonic(t *testing.T) {
	s, err := Start(DefaultScript, fastTiming(), seeded())
	require.NoError(t, err)

	last := 0.0
	for i := 0; i < 50; i++ {
		snap, ok := <-s.Updates()
		require.True(t, ok)
		require.GreaterOrEqual(t, snap.Value, last)
		require.LessOrEqual(t, snap.Value, Cap)
		last = snap.Value
	}
	s.Stop()
}

func TestSession_StatusRotates(t *testing.T) {
	s, err := Start(Script{"a", "b", "c"}, Timing{
		StatusInterval:   2 * time.Millisecond,
		ProgressInterval: time.Hour,
	}, fixedRand(0))
	require.NoError(t, err)
	defer s.Stop()

	seen := map[string]bool{}
	deadline := time.Now().Add(500 * time.Millisecond)
	for len(seen) < 3 && time.Now().Before(deadline) {
		seen[s.Snapshot().Status] = true
		time.Sleep(time.Millisecond)
	}
	assert.Len(t, seen, 3, "all phases should be shown")
}

func TestSession_StopHaltsBothLoops(t *testing.T) {
	s, err := Start(DefaultScript, fastTiming(), seeded())
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	s.Stop()
	assert.True(t, s.Stopped())

	before := s.Snapshot()
	time.Sleep(30 * time.Millisecond)
	after := s.Snapshot()
	assert.Equal(t, before, after, "no mutation after Stop")

	_, ok := <-s.Updates()
	assert.False(t, ok, "updates channel should be closed")

	// Idempotent.
	s.Stop()
}

func TestSession_CompleteForcesHundred(t *testing.T) {
	s, err := Start(DefaultScript, fastTiming(), seeded())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	snap := s.Complete("Process complete!")

	assert.Equal(t, 100.0, snap.Value)
	assert.Equal(t, "100%", snap.Percent)
	assert.Equal(t, "Process complete!", snap.Status)
	assert.True(t, s.Stopped())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, snap, s.Snapshot())
}

func TestSession_StartRejectsEmptyScript(t *testing.T) {
	_, err := Start(nil, fastTiming(), nil)
	assert.ErrorIs(t, err, ErrEmptyScript)
}

func TestTiming_Defaults(t *testing.T) {
	d := DefaultTiming()
	assert.Equal(t, 2*time.Second, d.StatusInterval)
	assert.Equal(t, 300*time.Millisecond, d.ProgressInterval)

	filled := Timing{}.withDefaults()
	assert.Equal(t, d, filled)
}
