package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-admin/internal/events"
	"github.com/spec-kit/employee-admin/internal/service"
)

// ErrQueueFull is returned to the dispatcher when events arrive faster than
// they can be delivered.
var ErrQueueFull = errors.New("notification queue full")

const defaultQueueSize = 64

// NotificationWorker delivers employee events off the request path.
type NotificationWorker struct {
	service *service.NotificationService
	logger  *zap.Logger
	queue   chan events.Event
	stop    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// StartNotificationWorker subscribes to employee events and starts the
// delivery loop. It stops when ctx is done or Stop is called.
func StartNotificationWorker(ctx context.Context, dispatcher events.Dispatcher, svc *service.NotificationService, logger *zap.Logger, queueSize int) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	w := &NotificationWorker{
		service: svc,
		logger:  logger.Named("notification_worker"),
		queue:   make(chan events.Event, queueSize),
		stop:    make(chan struct{}),
	}
	if dispatcher != nil {
		dispatcher.Subscribe(events.EventEmployeeCreated, w.enqueue)
		dispatcher.Subscribe(events.EventEmployeeUpdated, w.enqueue)
	}

	w.wg.Add(1)
	go w.run(ctx)
	return w
}

// Stop ends the delivery loop and waits for it. Queued events are dropped.
func (w *NotificationWorker) Stop() {
	w.once.Do(func() { close(w.stop) })
	w.wg.Wait()
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case <-w.stop:
		return nil
	default:
	}
	select {
	case w.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case event := <-w.queue:
			// The publishing request is gone by now; deliver on the worker context.
			if err := w.service.Deliver(ctx, event); err != nil {
				w.logger.Warn("notification delivery failed",
					zap.String("event_id", event.ID),
					zap.Error(err))
			}
		}
	}
}
