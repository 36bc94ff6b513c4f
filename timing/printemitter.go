package timing

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tebeka/atexit"
)

// PrintEmitter writes rendered timing messages to a writer, one message per
// line. Concurrent emissions are serialized; their relative order is
// whatever order the emissions arrive in.
type PrintEmitter struct {
	w    io.Writer
	lock sync.Mutex

	pending    []string
	bufferSize int
}

// NewPrintEmitter creates a PrintEmitter that writes each message to w
// immediately. A nil w writes to standard output.
func NewPrintEmitter(w io.Writer) *PrintEmitter {
	if w == nil {
		w = os.Stdout
	}

	return &PrintEmitter{
		w:          w,
		bufferSize: 1,
	}
}

// NewBufferedPrintEmitter creates a PrintEmitter that holds up to bufferSize
// messages before writing them out in one batch. Messages still pending when
// the process exits are flushed through atexit.
func NewBufferedPrintEmitter(w io.Writer, bufferSize int) *PrintEmitter {
	e := NewPrintEmitter(w)
	if bufferSize > 1 {
		e.bufferSize = bufferSize
		atexit.Register(e.Flush)
	}

	return e
}

// Emit queues the record's message and writes the queue out once it is full.
func (e *PrintEmitter) Emit(rec Record) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.pending = append(e.pending, rec.Message)
	if len(e.pending) >= e.bufferSize {
		e.flushLocked()
	}
}

// Flush writes all pending messages.
func (e *PrintEmitter) Flush() {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.flushLocked()
}

func (e *PrintEmitter) flushLocked() {
	for _, msg := range e.pending {
		fmt.Fprintln(e.w, msg)
	}
	e.pending = nil
}
