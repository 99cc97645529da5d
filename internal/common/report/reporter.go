// internal/common/report/reporter.go
package report

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/atomic"
)

// Reporter writes one human-readable line per settled task. Lines from
// concurrent tasks never interleave; their order follows completion.
type Reporter struct {
	mu        sync.Mutex
	w         io.Writer
	succeeded *atomic.Int64
	failed    *atomic.Int64
}

func New(w io.Writer) *Reporter {
	return &Reporter{
		w:         w,
		succeeded: atomic.NewInt64(0),
		failed:    atomic.NewInt64(0),
	}
}

func (r *Reporter) Success(format string, args ...interface{}) {
	r.succeeded.Inc()
	r.writeLine(format, args...)
}

func (r *Reporter) Failure(format string, args ...interface{}) {
	r.failed.Inc()
	r.writeLine(format, args...)
}

func (r *Reporter) writeLine(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// stdout going away must not take the batch down with it
	_, _ = fmt.Fprintf(r.w, format+"\n", args...)
}

func (r *Reporter) Succeeded() int64 { return r.succeeded.Load() }

func (r *Reporter) Failed() int64 { return r.failed.Load() }

// Total is the number of reports produced so far.
func (r *Reporter) Total() int64 { return r.Succeeded() + r.Failed() }
