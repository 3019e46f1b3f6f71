package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// task is one queued notification send.
type task struct {
	name string
	run  func(ctx context.Context) error
}

// Dispatcher runs notification sends in the background so the HTTP
// response path never waits on a provider. Failures are logged and
// surfaced on Errors; they are never propagated to the request that
// queued them, and one channel's failure cannot block another's send.
type Dispatcher struct {
	tasks   chan task
	errs    chan error
	done    chan struct{}
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

// NewDispatcher starts a dispatcher with the given queue capacity.
func NewDispatcher(queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	d := &Dispatcher{
		tasks:   make(chan task, queueSize),
		errs:    make(chan error, queueSize),
		done:    make(chan struct{}),
		timeout: 30 * time.Second,
	}
	go d.loop()
	return d
}

func (d *Dispatcher) loop() {
	defer close(d.done)
	for t := range d.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := t.run(ctx)
		cancel()
		if err == nil {
			continue
		}

		zap.L().Error("notification failed",
			zap.String("task", t.name),
			zap.Error(err),
		)
		// Error channel is best-effort: drop when nobody is reading.
		select {
		case d.errs <- eris.Wrap(err, t.name):
		default:
		}
	}
}

// Enqueue schedules a send. It never blocks: when the queue is full the
// task is dropped and logged, since delaying the chat response would be
// worse than losing a notification.
func (d *Dispatcher) Enqueue(name string, run func(ctx context.Context) error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		zap.L().Warn("notification dropped: dispatcher closed", zap.String("task", name))
		return
	}

	select {
	case d.tasks <- task{name: name, run: run}:
	default:
		zap.L().Warn("notification dropped: queue full", zap.String("task", name))
	}
}

// Errors exposes send failures, mainly for tests and the serve loop's
// failure log.
func (d *Dispatcher) Errors() <-chan error {
	return d.errs
}

// Close stops accepting tasks and waits for queued sends to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.tasks)
	d.mu.Unlock()

	<-d.done
}
