//go:build unit

package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"confbook/internal/infra/notify"
	"confbook/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.NotificationEvent
	err    error
}

func (p *capturingPublisher) Publish(_ context.Context, event shared.NotificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) published() []shared.NotificationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.NotificationEvent(nil), p.events...)
}

func TestDispatcher(t *testing.T) {
	event := shared.NotificationEvent{
		UserEmail: "member@example.com",
		EventType: shared.EventBookingCreated,
	}

	t.Run("delivers queued events to the publisher", func(t *testing.T) {
		publisher := &capturingPublisher{}
		dispatcher := notify.NewDispatcher(publisher)

		dispatcher.Dispatch(event)
		dispatcher.Dispatch(event)
		dispatcher.Close()

		require.Len(t, publisher.published(), 2)
		assert.Equal(t, shared.EventBookingCreated, publisher.published()[0].EventType)
	})

	t.Run("Dispatch returns without waiting for delivery", func(t *testing.T) {
		publisher := &capturingPublisher{}
		dispatcher := notify.NewDispatcher(publisher)
		defer dispatcher.Close()

		done := make(chan struct{})
		go func() {
			dispatcher.Dispatch(event)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Dispatch blocked the caller")
		}
	})

	t.Run("publish failures are swallowed", func(t *testing.T) {
		publisher := &capturingPublisher{err: errors.New("broker unavailable")}
		dispatcher := notify.NewDispatcher(publisher)

		dispatcher.Dispatch(event)
		dispatcher.Close()

		assert.Empty(t, publisher.published())
	})

	t.Run("Close drains the queue before stopping", func(t *testing.T) {
		publisher := &capturingPublisher{}
		dispatcher := notify.NewDispatcher(publisher)

		for range 10 {
			dispatcher.Dispatch(event)
		}
		dispatcher.Close()

		assert.Len(t, publisher.published(), 10)
	})
}
