package timing

import "time"

// stdoutEmitter and logEmitter are the two default emission channels that
// rewritten code reports through. The println channel writes unbuffered so
// messages appear as soon as the instrumented function returns.
var (
	stdoutEmitter Emitter = NewPrintEmitter(nil)
	logEmitter    Emitter = NewLogEmitter(nil)
)

// EmitPrintln renders the timing message for one completed invocation and
// prints it to standard output. The funclock rewriter inserts a call to it
// at the end of every function annotated //funclock:println; start is the
// instant captured before the original body ran, and an empty format selects
// the default template. The rewriter rejects malformed formats before any
// code is generated, so by the time EmitPrintln runs the format parses.
func EmitPrintln(fn string, u Unit, format string, start time.Time) {
	emitDefault(stdoutEmitter, fn, u, format, start)
}

// EmitLog renders the timing message for one completed invocation and logs
// it at info level through slog.Default. The rewriter inserts a call to it
// at the end of every function annotated //funclock:log.
func EmitLog(fn string, u Unit, format string, start time.Time) {
	emitDefault(logEmitter, fn, u, format, start)
}

func emitDefault(e Emitter, fn string, u Unit, format string, start time.Time) {
	end := WallClock.Now()

	if format == "" {
		format = DefaultTemplate
	}

	i := MakeBuilder().
		WithUnit(u).
		WithFormat(format).
		WithEmitter(e).
		Build(fn)
	i.emitBetween(start, end)
}
