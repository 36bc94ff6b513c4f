package timing

import (
	"time"

	"github.com/rs/xid"
)

// An Instrument measures single invocations of one named function and emits
// one message per normal completion. Instruments are immutable after Build
// and safe for concurrent use; concurrent invocations measure independent
// start/end pairs.
type Instrument struct {
	name     string
	unit     Unit
	format   Format
	clock    Clock
	emitters []Emitter
}

// Builder builds Instruments.
type Builder struct {
	unit     Unit
	template string
	clock    Clock
	emitters []Emitter
}

// MakeBuilder creates a Builder with the default configuration:
// milliseconds, the default template, the wall clock, and a stdout
// PrintEmitter.
func MakeBuilder() Builder {
	return Builder{
		unit:     UnitDefault,
		template: DefaultTemplate,
		clock:    WallClock,
	}
}

// WithUnit sets the unit the elapsed duration is reported in.
func (b Builder) WithUnit(u Unit) Builder {
	b.unit = u
	return b
}

// WithFormat sets the message template.
func (b Builder) WithFormat(template string) Builder {
	b.template = template
	return b
}

// WithClock replaces the clock that captures the start and end instants.
func (b Builder) WithClock(c Clock) Builder {
	b.clock = c
	return b
}

// WithEmitter adds an emission channel. Every emitter receives every record.
func (b Builder) WithEmitter(e Emitter) Builder {
	b.emitters = append(append([]Emitter{}, b.emitters...), e)
	return b
}

// Build creates the Instrument that measures the function named name. Build
// panics if the template is malformed; the funclock rewriter validates
// templates before it ever generates a Build call.
func (b Builder) Build(name string) *Instrument {
	emitters := b.emitters
	if len(emitters) == 0 {
		emitters = []Emitter{NewPrintEmitter(nil)}
	}

	return &Instrument{
		name:     name,
		unit:     b.unit,
		format:   MustParseFormat(b.template),
		clock:    b.clock,
		emitters: emitters,
	}
}

// Name returns the name of the instrumented function.
func (i *Instrument) Name() string {
	return i.name
}

// Start captures the start instant of one invocation.
func (i *Instrument) Start() *Span {
	return &Span{
		instrument: i,
		start:      i.clock.Now(),
	}
}

// A Span is one in-flight measurement, between the start capture and the end
// capture. End must be called exactly once, and only after the measured work
// completed normally.
type Span struct {
	instrument *Instrument
	start      time.Time
}

// End captures the end instant and emits the timing message.
func (s *Span) End() {
	i := s.instrument
	i.emitBetween(s.start, i.clock.Now())
}

func (i *Instrument) emitBetween(start, end time.Time) {
	elapsed := end.Sub(start)
	value := i.unit.Convert(elapsed)

	rec := Record{
		ID:      xid.New().String(),
		Fn:      i.name,
		Start:   start,
		End:     end,
		Elapsed: elapsed,
		Value:   value,
		Unit:    i.unit,
		Message: i.format.Render(i.name, value, i.unit),
	}

	for _, e := range i.emitters {
		e.Emit(rec)
	}
}
