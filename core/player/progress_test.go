package player

import (
	"testing"
	"time"
)

func TestPlayedSeconds(t *testing.T) {
	tests := []struct {
		name   string
		ranges []TimeRange
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []TimeRange{{0, 30}}, 30},
		{"disjoint", []TimeRange{{0, 50}, {60, 170}}, 160},
		{"many", []TimeRange{{0, 1}, {2, 3}, {4, 5}, {6, 7}}, 4},
	}

	for _, tt := range tests {
		if got := PlayedSeconds(tt.ranges); got != tt.want {
			t.Errorf("PlayedSeconds(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPlayedFraction(t *testing.T) {
	tests := []struct {
		name     string
		ranges   []TimeRange
		duration float64
		want     float64
	}{
		{"zero duration", []TimeRange{{0, 50}}, 0, 0},
		{"negative duration", []TimeRange{{0, 50}}, -1, 0},
		{"normal", []TimeRange{{0, 50}, {60, 170}}, 200, 0.8},
		{"empty ranges", nil, 200, 0},
		{"full", []TimeRange{{0, 200}}, 200, 1},
		{"over-reported clamps to one", []TimeRange{{0, 250}}, 200, 1},
	}

	for _, tt := range tests {
		if got := PlayedFraction(tt.ranges, tt.duration); got != tt.want {
			t.Errorf("PlayedFraction(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestThrottle(t *testing.T) {
	th := throttle{interval: 300 * time.Millisecond}
	base := time.Now()

	if !th.allow(base) {
		t.Error("first emission must pass")
	}
	if th.allow(base.Add(100 * time.Millisecond)) {
		t.Error("emission inside the interval must be dropped")
	}
	if !th.allow(base.Add(300 * time.Millisecond)) {
		t.Error("emission at the interval boundary must pass")
	}

	th.reset()
	if !th.allow(base.Add(301 * time.Millisecond)) {
		t.Error("emission right after reset must pass")
	}
}
