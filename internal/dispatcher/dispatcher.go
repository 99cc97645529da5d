// internal/dispatcher/dispatcher.go
package dispatcher

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"order-loadgen/internal/common/logger"
	"order-loadgen/internal/common/metrics"
)

// Task is one unit of batch work. It reports its own outcome; the dispatcher
// never sees success or failure.
type Task interface {
	Handle(ctx context.Context, index int)
}

// TaskFunc adapts a plain function to Task.
type TaskFunc func(ctx context.Context, index int)

func (f TaskFunc) Handle(ctx context.Context, index int) { f(ctx, index) }

// Skipper is implemented by tasks that can report an index the dispatcher
// never started because ctx was cancelled first. Tasks without it get Handle
// with the cancelled context instead.
type Skipper interface {
	Skip(ctx context.Context, index int, err error)
}

// Range returns the task parameters 1..n.
func Range(n int) []int {
	if n <= 0 {
		return nil
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i + 1
	}
	return indices
}

// Dispatcher fans a batch of independent tasks out to goroutines and joins
// them before returning.
type Dispatcher struct {
	concurrency int
	logger      logger.Logger
}

// New returns a Dispatcher that keeps at most concurrency tasks in flight.
// concurrency <= 0 launches every task at once.
func New(concurrency int, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		concurrency: concurrency,
		logger:      log,
	}
}

// Dispatch runs task once per index and blocks until all of them have
// returned. A task that fails or hangs does not affect its siblings, but a
// hung task holds the barrier.
func (d *Dispatcher) Dispatch(ctx context.Context, phase string, indices []int, task Task) {
	log := d.logger.With(map[string]interface{}{"phase": phase})
	log.Info("dispatching batch", map[string]interface{}{
		"tasks":       len(indices),
		"concurrency": d.concurrency,
	})

	inFlight := metrics.DispatchTasksInFlight.WithLabelValues(phase)
	peak := atomic.NewInt64(0)
	running := atomic.NewInt64(0)

	var sem chan struct{}
	if d.concurrency > 0 {
		sem = make(chan struct{}, d.concurrency)
	}

	start := time.Now()
	skipped := 0
	var wg sync.WaitGroup
	for _, index := range indices {
		if ctx.Err() != nil {
			d.skip(ctx, task, index)
			skipped++
			continue
		}
		if sem != nil {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				d.skip(ctx, task, index)
				skipped++
				continue
			}
		}
		wg.Add(1)
		go func(index int) {
			defer func() {
				running.Dec()
				inFlight.Dec()
				if sem != nil {
					<-sem
				}
				wg.Done()
			}()

			inFlight.Inc()
			n := running.Inc()
			for p := peak.Load(); n > p && !peak.CompareAndSwap(p, n); p = peak.Load() {
			}
			task.Handle(ctx, index)
		}(index)
	}
	wg.Wait()

	log.Info("batch settled", map[string]interface{}{
		"tasks":      len(indices),
		"skipped":    skipped,
		"peakActive": peak.Load(),
		"elapsed":    time.Since(start).String(),
	})
}

func (d *Dispatcher) skip(ctx context.Context, task Task, index int) {
	if s, ok := task.(Skipper); ok {
		s.Skip(ctx, index, ctx.Err())
		return
	}
	task.Handle(ctx, index)
}
