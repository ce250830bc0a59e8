package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"confbook/internal/infra/metrics"
	"confbook/internal/usecase/shared"
)

const (
	queueSize      = 256
	publishTimeout = 5 * time.Second
)

// EventPublisher is the delivery backend the dispatcher drains into.
type EventPublisher interface {
	Publish(ctx context.Context, event shared.NotificationEvent) error
}

// Dispatcher decouples notification delivery from the request path. Dispatch
// enqueues and returns immediately; a background worker publishes. When the
// queue is full the event is dropped and logged, never blocking the caller.
type Dispatcher struct {
	publisher EventPublisher
	queue     chan shared.NotificationEvent
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewDispatcher(publisher EventPublisher) *Dispatcher {
	d := &Dispatcher{
		publisher: publisher,
		queue:     make(chan shared.NotificationEvent, queueSize),
		done:      make(chan struct{}),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

func (d *Dispatcher) Dispatch(event shared.NotificationEvent) {
	select {
	case d.queue <- event:
	default:
		slog.Warn("notification queue full, dropping event",
			"event_type", event.EventType, "user_email", event.UserEmail)
		metrics.IncNotificationPublished("dropped")
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case event := <-d.queue:
			d.publish(event)
		case <-d.done:
			// drain what is already queued before exiting
			for {
				select {
				case event := <-d.queue:
					d.publish(event)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) publish(event shared.NotificationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := d.publisher.Publish(ctx, event); err != nil {
		slog.Error("failed to publish notification event",
			"event_type", event.EventType, "user_email", event.UserEmail, "error", err)
		metrics.IncNotificationPublished("failure")
		return
	}
	metrics.IncNotificationPublished("success")
}

// Close stops the worker after draining queued events.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
	})
	d.wg.Wait()
}
