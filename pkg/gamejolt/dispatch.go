package gamejolt

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PendingCall is a handle for an in-flight or completed API call. It
// resolves to exactly one APIResult.
type PendingCall struct {
	id       string
	endpoint string
	done     chan struct{}
	result   APIResult
}

// ID returns the call's correlation ID, also attached to log entries.
func (p *PendingCall) ID() string { return p.id }

// Done returns a channel closed once the result is available.
func (p *PendingCall) Done() <-chan struct{} { return p.done }

// Result blocks until the call resolves or ctx is cancelled. The returned
// error reports only caller-side cancellation; every transport and protocol
// failure is delivered inside the APIResult.
func (p *PendingCall) Result(ctx context.Context) (APIResult, error) {
	select {
	case <-p.done:
		return p.result, nil
	case <-ctx.Done():
		return APIResult{}, ctx.Err()
	}
}

func (p *PendingCall) resolve(result APIResult) {
	p.result = result
	close(p.done)
}

// dispatcher owns the single worker goroutine that executes API calls.
// Tasks run strictly in submission order, one at a time: session lifecycle
// correctness (open before ping before close) depends on it. The queue is
// unbounded so submission never blocks the caller; the trade-off is that a
// hung transport call stalls everything queued behind it.
type dispatcher struct {
	exec   func(ctx context.Context, signedURL string) APIResult
	logger *zap.Logger

	mu     sync.Mutex
	queue  []*queuedTask
	closed bool

	wake chan struct{}
	done chan struct{}
}

type queuedTask struct {
	call      *PendingCall
	signedURL string
}

func newDispatcher(exec func(ctx context.Context, signedURL string) APIResult, logger *zap.Logger) *dispatcher {
	d := &dispatcher{
		exec:   exec,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// submit enqueues a signed URL for execution and returns immediately.
func (d *dispatcher) submit(endpoint, signedURL string) (*PendingCall, error) {
	call := &PendingCall{
		id:       uuid.NewString(),
		endpoint: endpoint,
		done:     make(chan struct{}),
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrClosed
	}
	d.queue = append(d.queue, &queuedTask{call: call, signedURL: signedURL})
	d.mu.Unlock()

	d.logger.Debug("api call queued",
		zap.String("call_id", call.id),
		zap.String("endpoint", endpoint))

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return call, nil
}

// close stops intake, drains already-queued tasks and joins the worker.
func (d *dispatcher) close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	<-d.done
}

func (d *dispatcher) run() {
	defer close(d.done)
	for {
		d.mu.Lock()
		var task *queuedTask
		if len(d.queue) > 0 {
			task = d.queue[0]
			d.queue = d.queue[1:]
		}
		closed := d.closed
		d.mu.Unlock()

		if task == nil {
			if closed {
				return
			}
			<-d.wake
			continue
		}

		start := time.Now()
		result := d.exec(context.Background(), task.signedURL)
		task.call.resolve(result)

		d.logger.Debug("api call finished",
			zap.String("call_id", task.call.id),
			zap.String("endpoint", task.call.endpoint),
			zap.Bool("success", result.Success),
			zap.Duration("elapsed", time.Since(start)))
	}
}
