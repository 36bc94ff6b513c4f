package timing

// The wrappers below are the manual alternative to source rewriting: they
// run a function between a start capture and an end capture and pass its
// results through untouched. They are deliberately straight-line rather than
// deferred, so a panic in f propagates unchanged and skips the end capture
// and the emission entirely. A returned non-nil error is a normal completion
// and is still timed.

// Do runs f under i's timing.
func Do(i *Instrument, f func()) {
	span := i.Start()
	f()
	span.End()
}

// Call runs f under i's timing and returns its result unchanged.
func Call[T any](i *Instrument, f func() T) T {
	span := i.Start()
	v := f()
	span.End()
	return v
}

// Call2 runs f under i's timing and returns both results unchanged. The
// common fallible shape is Call2[T, error].
func Call2[T1, T2 any](i *Instrument, f func() (T1, T2)) (T1, T2) {
	span := i.Start()
	v1, v2 := f()
	span.End()
	return v1, v2
}
