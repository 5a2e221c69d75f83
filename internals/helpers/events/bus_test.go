package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, s *Subscription) Event {
	t.Helper()
	select {
	case e := <-s.C:
		return e
	case <-time.After(time.Second):
		t.Fatal("event tidak diterima")
		return Event{}
	}
}

func TestBusTopicFilter(t *testing.T) {
	bus := NewBus()
	footer := bus.Subscribe("footer.updated")
	all := bus.Subscribe()
	defer footer.Close()
	defer all.Close()

	bus.Publish(Event{Topic: "gallery.updated", Entity: "gallery-groups", ID: "g1", Action: ActionCreated})
	bus.Publish(Event{Topic: "footer.updated", Entity: "footer-sections", ID: "f1", Action: ActionUpdated})

	got := receive(t, footer)
	assert.Equal(t, "f1", got.ID)
	assert.False(t, got.At.IsZero())

	assert.Equal(t, "g1", receive(t, all).ID)
	assert.Equal(t, "f1", receive(t, all).ID)
}

func TestBusDropsWhenFull(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe("x")
	defer sub.Close()

	for i := 0; i < defaultBuffer+10; i++ {
		bus.Publish(Event{Topic: "x"})
	}
	assert.Len(t, sub.C, defaultBuffer)
}

func TestSubscriptionCloseIdempotent(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	require.Equal(t, 1, bus.Subscribers())

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, bus.Subscribers())

	_, open := <-sub.C
	assert.False(t, open)

	bus.Publish(Event{Topic: "x"})
}
