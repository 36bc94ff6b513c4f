package timing

import "time"

// A Clock tells the current instant. Instruments read the start and end
// instants of an invocation from a Clock so that tests can substitute a
// controlled time source.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now()
}

// WallClock reads the system clock. time.Now carries a monotonic reading, so
// elapsed times computed from it are not affected by wall-clock adjustments.
var WallClock Clock = wallClock{}

// Now returns the current instant on the wall clock. Rewritten function
// bodies call it to capture their start time.
func Now() time.Time {
	return WallClock.Now()
}
