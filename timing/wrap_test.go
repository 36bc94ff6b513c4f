package timing

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmitter struct {
	lock sync.Mutex
	recs []Record
}

func (e *recordingEmitter) Emit(rec Record) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.recs = append(e.recs, rec)
}

func (e *recordingEmitter) records() []Record {
	e.lock.Lock()
	defer e.lock.Unlock()

	return append([]Record{}, e.recs...)
}

func TestCallReturnsTheValueUnchanged(t *testing.T) {
	sink := &recordingEmitter{}
	inst := MakeBuilder().WithEmitter(sink).Build("fortyTwo")

	v := Call(inst, func() int { return 42 })

	assert.Equal(t, 42, v)
	require.Len(t, sink.records(), 1)
	assert.GreaterOrEqual(t, sink.records()[0].Elapsed, time.Duration(0))
}

func TestCall2PassesAnErrorThrough(t *testing.T) {
	sink := &recordingEmitter{}
	inst := MakeBuilder().WithEmitter(sink).Build("flaky")
	errBoom := errors.New("boom")

	v, err := Call2(inst, func() (string, error) {
		return "partial", errBoom
	})

	assert.Equal(t, "partial", v)
	assert.Equal(t, errBoom, err)

	// Returning an error is a normal completion, so the call is still timed.
	assert.Len(t, sink.records(), 1)
}

func TestPanicPropagatesAndSkipsEmission(t *testing.T) {
	sink := &recordingEmitter{}
	inst := MakeBuilder().WithEmitter(sink).Build("explode")

	assert.PanicsWithValue(t, "kaboom", func() {
		Do(inst, func() { panic("kaboom") })
	})

	assert.Empty(t, sink.records())
}

func TestSleepMeasuresAtLeastTheSleep(t *testing.T) {
	sink := &recordingEmitter{}
	inst := MakeBuilder().
		WithUnit(Nanoseconds).
		WithEmitter(sink).
		Build("sleepy")

	Do(inst, func() { time.Sleep(10 * time.Millisecond) })

	recs := sink.records()
	require.Len(t, recs, 1)
	assert.GreaterOrEqual(t, recs[0].Elapsed, 10*time.Millisecond)
	assert.GreaterOrEqual(t, recs[0].Value, int64(10*time.Millisecond))
}

func TestConcurrentInvocationsAreIndependent(t *testing.T) {
	sink := &recordingEmitter{}
	inst := MakeBuilder().
		WithUnit(Microseconds).
		WithEmitter(sink).
		Build("racy")

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Do(inst, func() { time.Sleep(5 * time.Millisecond) })
		}()
	}
	wg.Wait()

	recs := sink.records()
	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.GreaterOrEqual(t, rec.Elapsed, 5*time.Millisecond)
		assert.True(t, rec.End.After(rec.Start))
	}
	assert.NotEqual(t, recs[0].ID, recs[1].ID)
}
