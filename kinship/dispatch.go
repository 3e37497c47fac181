package kinship

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrDispatcherStopped is returned when submitting to a stopped dispatcher
var ErrDispatcherStopped = errors.New("relationship dispatcher stopped")

// Dispatcher sends requests to a worker pool and routes each response to its caller by request id.
// Responses nobody waits for anymore are dropped.
type Dispatcher struct {
	requests  chan Request
	responses chan Response
	// lock protects pending
	lock    sync.Mutex
	pending map[string]chan Response
	stopped chan struct{}
	logger  *zap.SugaredLogger
}

// NewDispatcher returns a dispatcher, to Run before submitting
func NewDispatcher(logger *zap.SugaredLogger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Dispatcher{
		requests:  make(chan Request),
		responses: make(chan Response),
		pending:   make(map[string]chan Response),
		stopped:   make(chan struct{}),
		logger:    logger,
	}
}

// Run starts workers and blocks until ctx is done
func (d *Dispatcher) Run(ctx context.Context, workers int) error {
	routed := make(chan struct{})
	go func() {
		defer close(routed)
		d.route()
	}()

	err := RunPool(ctx, workers, d.requests, d.responses, d.logger)
	close(d.responses)
	<-routed
	close(d.stopped)

	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// route delivers responses to their callers
func (d *Dispatcher) route() {
	for response := range d.responses {
		d.lock.Lock()
		waiting, found := d.pending[response.RequestId]
		delete(d.pending, response.RequestId)
		d.lock.Unlock()

		if !found {
			d.logger.Debugw("stale relationship response dropped", "request", response.RequestId)
			continue
		}

		waiting <- response
	}
}

// forget stops waiting for a request
func (d *Dispatcher) forget(requestId string) {
	d.lock.Lock()
	defer d.lock.Unlock()
	delete(d.pending, requestId)
}

// Submit sends request to workers and waits for its response.
// A request with no id gets one.
func (d *Dispatcher) Submit(ctx context.Context, request Request) (Response, error) {
	if len(request.RequestId) == 0 {
		request.RequestId = uuid.NewString()
	}

	waiting := make(chan Response, 1)
	d.lock.Lock()
	if _, found := d.pending[request.RequestId]; found {
		d.lock.Unlock()
		return Response{}, fmt.Errorf("request %s already pending", request.RequestId)
	}

	d.pending[request.RequestId] = waiting
	d.lock.Unlock()

	select {
	case d.requests <- request:
	case <-ctx.Done():
		d.forget(request.RequestId)
		return Response{}, ctx.Err()
	case <-d.stopped:
		d.forget(request.RequestId)
		return Response{}, ErrDispatcherStopped
	}

	select {
	case response := <-waiting:
		return response, nil
	case <-ctx.Done():
		d.forget(request.RequestId)
		return Response{}, ctx.Err()
	case <-d.stopped:
		select {
		case response := <-waiting:
			return response, nil
		default:
			d.forget(request.RequestId)
			return Response{}, ErrDispatcherStopped
		}
	}
}
