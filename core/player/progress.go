package player

import "time"

// PlayedSeconds sums the lengths of the element's reported played ranges.
// The ranges are taken as-is: the platform guarantees they are disjoint and
// start-ordered, and they may include material traversed by seeking.
func PlayedSeconds(ranges []TimeRange) float64 {
	var total float64
	for _, r := range ranges {
		total += r.End - r.Start
	}
	return total
}

// PlayedFraction derives playedSeconds/duration, clamped to [0,1]. A zero or
// unknown duration yields 0.
func PlayedFraction(ranges []TimeRange, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	fraction := PlayedSeconds(ranges) / duration
	if fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}

// throttle limits how often time-update events reach the bus. Purely a UI
// smoothing measure; it never feeds the played-duration computation.
type throttle struct {
	interval time.Duration
	last     time.Time
}

// allow reports whether an emission at now is due, recording it if so.
func (t *throttle) allow(now time.Time) bool {
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}

// reset forgets the last emission so the next one passes immediately.
func (t *throttle) reset() {
	t.last = time.Time{}
}
