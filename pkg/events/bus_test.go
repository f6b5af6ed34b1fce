package events

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	ch := bus.Subscribe()

	bus.Publish(New(EventHuntStart, "window=7d"))

	select {
	case e := <-ch:
		if e.Type != EventHuntStart {
			t.Errorf("expected hunt.start, got %s", e.Type)
		}
		if e.Timestamp.IsZero() {
			t.Error("event should be timestamped")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSubscribeWithFilter(t *testing.T) {
	bus := NewMemoryBus()
	ch := bus.Subscribe(EventVerifyResult)

	bus.Publish(New(EventHuntStep, nil))
	bus.Publish(New(EventVerifyResult, "passed"))

	select {
	case e := <-ch:
		if e.Type != EventVerifyResult {
			t.Errorf("filter leaked event %s", e.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for filtered event")
	}

	select {
	case e := <-ch:
		t.Errorf("unexpected extra event %s", e.Type)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewMemoryBus()
	ch := bus.Subscribe()
	bus.Unsubscribe(ch)

	if _, open := <-ch; open {
		t.Error("channel should be closed after Unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	bus.Publish(New(EventHuntEnd, nil))
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	bus := NewMemoryBus()
	bus.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			bus.Publish(New(EventHuntStep, i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
