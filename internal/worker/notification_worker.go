package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/park-booking/internal/events"
	"github.com/spec-kit/park-booking/internal/service"
)

const defaultQueueSize = 256

// NotificationWorker moves event delivery off the request path. Services publish into it
// as they would into any dispatcher; a background goroutine hands each event to the
// wrapped dispatcher in publish order.
type NotificationWorker struct {
	inner  events.Dispatcher
	logger *zap.Logger
	queue  chan queuedEvent

	wg       sync.WaitGroup
	stopOnce sync.Once
	mu       sync.RWMutex
	stopped  bool
}

type queuedEvent struct {
	ctx   context.Context
	event events.Event
}

// NewNotificationWorker wraps inner with a queue of the given size.
func NewNotificationWorker(inner events.Dispatcher, logger *zap.Logger, queueSize int) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &NotificationWorker{
		inner:  inner,
		logger: logger,
		queue:  make(chan queuedEvent, queueSize),
	}
}

// StartNotificationWorker registers notification handlers on the worker's dispatcher
// and starts draining the queue.
func StartNotificationWorker(ctx context.Context, w *NotificationWorker, notificationService *service.NotificationService) {
	if notificationService != nil {
		notificationService.RegisterHandlers(w)
	}
	w.wg.Add(1)
	go w.run(ctx)
}

// Publish enqueues the event. A full queue drops the event rather than stalling the caller.
func (w *NotificationWorker) Publish(ctx context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return nil
	}

	select {
	case w.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("subject", event.Subject))
	}
	return nil
}

// Subscribe registers a handler on the wrapped dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.inner.Subscribe(eventType, handler)
}

// Stop closes the queue and waits for queued events to be delivered.
func (w *NotificationWorker) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		close(w.queue)
		w.mu.Unlock()
	})
	w.wg.Wait()
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case item, ok := <-w.queue:
			if !ok {
				return
			}
			w.deliver(item)
		case <-ctx.Done():
			w.drain()
			return
		}
	}
}

// drain delivers whatever is already queued once the worker context ends.
func (w *NotificationWorker) drain() {
	for {
		select {
		case item, ok := <-w.queue:
			if !ok {
				return
			}
			w.deliver(item)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(item queuedEvent) {
	if err := w.inner.Publish(item.ctx, item.event); err != nil {
		w.logger.Error("notification handler failed",
			zap.String("event_id", item.event.ID),
			zap.String("event_type", string(item.event.Type)),
			zap.Error(err))
	}
}
