package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/shopping-list/internal/usecase"
	"github.com/DRSN-tech/shopping-list/pkg/e"
	"github.com/DRSN-tech/shopping-list/pkg/logger"
	"github.com/jimlawless/whereami"
)

const (
	defaultQueueSize      = 256
	defaultDeliverTimeout = 2 * time.Second
)

// Dispatcher доставляет события в фоне: Notify только кладёт событие в очередь,
// а единственная горутина отправляет их получателю в порядке постановки.
type Dispatcher struct {
	next    usecase.ChangeNotifier
	events  chan *usecase.ListChangedEvent
	timeout time.Duration
	logger  logger.Logger
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(next usecase.ChangeNotifier, queueSize int, timeout time.Duration, logger logger.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if timeout <= 0 {
		timeout = defaultDeliverTimeout
	}

	d := &Dispatcher{
		next:    next,
		events:  make(chan *usecase.ListChangedEvent, queueSize),
		timeout: timeout,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go d.run()

	return d
}

// Notify не блокируется. Если очередь заполнена, событие отбрасывается с ErrEventQueueFull.
func (d *Dispatcher) Notify(_ context.Context, event *usecase.ListChangedEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return e.ErrDispatcherClosed
	}

	select {
	case d.events <- event:
		return nil
	default:
		return e.ErrEventQueueFull
	}
}

// Close перестаёт принимать события и ждёт, пока очередь будет доставлена.
// Сигнатура подходит для closer.Func.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.events)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		d.logger.Warnf("Event queue was not drained: %d event(s) left", len(d.events))
		return e.Wrap(whereami.WhereAmI(), ctx.Err())
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for event := range d.events {
		d.deliver(event)
	}
}

func (d *Dispatcher) deliver(event *usecase.ListChangedEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.next.Notify(ctx, event); err != nil {
		d.logger.Warnf("Failed to deliver %s event for product %s: %v", event.Type, event.Product.ID, err)
	}
}
