package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_NormAndSub(t *testing.T) {
	a := State{4, 6, 3}
	b := State{1, 2}

	diff := a.Sub(b)
	if diff[0] != 3 || diff[1] != 4 || diff[2] != 3 {
		t.Errorf("Sub = %v", diff)
	}
	if got := diff[:2].Norm(); got != 5 {
		t.Errorf("Norm = %v, want 5", got)
	}

	c := a.Clone()
	c[0] = 99
	if a[0] != 4 {
		t.Error("Clone shares storage")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"zero dt", func(c *Config) { c.Dt = 0 }, false},
		{"negative duration", func(c *Config) { c.Duration = -1 }, false},
		{"adaptive without tolerance", func(c *Config) { c.Adaptive = true; c.Tolerance = 0 }, false},
		{"adaptive inverted bounds", func(c *Config) { c.Adaptive = true; c.MaxDt = c.MinDt / 2 }, false},
		{"negative sampling", func(c *Config) { c.SampleEvery = -2 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 12, Time: 0.5, Wrapped: ErrInvalidState}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError does not unwrap")
	}
	if got := err.Error(); got != "step 12 (t=0.5000): "+ErrInvalidState.Error() {
		t.Errorf("Error() = %q", got)
	}
}

func TestParallelFor(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1001} {
		seen := make([]int32, n)
		var calls int32
		ParallelFor(n, 8, func(start, end int) {
			atomic.AddInt32(&calls, 1)
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, c)
			}
		}
		if calls == 0 {
			t.Errorf("n=%d: fn never called", n)
		}
	}
}
