package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, s *Subscriber) (Event, bool) {
	t.Helper()
	select {
	case e, ok := <-s.Events():
		return e, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}, false
	}
}

func TestEventHubPublish(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewEventHub()
	go hub.Run(ctx)

	a := hub.Subscribe()
	b := hub.Subscribe()
	require.Eventually(t, func() bool { return hub.Connected() == 2 }, time.Second, 10*time.Millisecond)

	hub.Publish(Event{Type: EventIncidentResolved, IncidentID: "i1"})

	for _, s := range []*Subscriber{a, b} {
		e, ok := receive(t, s)
		require.True(t, ok)
		assert.Equal(t, EventIncidentResolved, e.Type)
		assert.Equal(t, "i1", e.IncidentID)
		assert.False(t, e.Timestamp.IsZero())
	}
}

func TestEventHubUnsubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewEventHub()
	go hub.Run(ctx)

	s := hub.Subscribe()
	hub.Unsubscribe(s)

	_, ok := receive(t, s)
	assert.False(t, ok, "channel should be closed after unsubscribe")
	assert.Equal(t, 0, hub.Connected())
}

func TestEventHubShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewEventHub()
	go hub.Run(ctx)

	s := hub.Subscribe()
	cancel()

	_, ok := receive(t, s)
	assert.False(t, ok)

	late := hub.Subscribe()
	_, ok = receive(t, late)
	assert.False(t, ok, "subscribing after shutdown yields a closed channel")

	hub.Publish(Event{Type: EventIncidentResolved})
	hub.Unsubscribe(late)
}
