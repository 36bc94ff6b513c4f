package timing

import "time"

// A Record captures one timed invocation of an instrumented function. A
// Record is built after the function body completes normally and is handed
// to every emitter of the instrument; it is never retained across calls.
type Record struct {
	ID      string
	Fn      string
	Start   time.Time
	End     time.Time
	Elapsed time.Duration
	Value   int64
	Unit    Unit
	Message string
}

// An Emitter delivers one timing record to its destination.
type Emitter interface {
	Emit(rec Record)
}
