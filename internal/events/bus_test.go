package events

import (
	"testing"
	"time"
)

func TestPublishAndSubscribe(t *testing.T) {
	bus := NewBus(16)
	defer bus.Close()

	ch, cancel := bus.SubscribeChan(4, EventTaskCompleted)
	defer cancel()

	bus.Publish(NewEvent(EventTaskRunning, map[string]any{"task_id": "t1"}))
	bus.Publish(NewEvent(EventTaskCompleted, map[string]any{"task_id": "t1"}))

	select {
	case e := <-ch:
		if e.Type != EventTaskCompleted {
			t.Fatalf("unexpected event type: %s", e.Type)
		}
		if e.Payload["task_id"] != "t1" {
			t.Fatalf("unexpected payload: %v", e.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	// The filtered subscription must not see the running event.
	select {
	case e := <-ch:
		t.Fatalf("unexpected extra event: %s", e.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus(16)
	defer bus.Close()

	got := make(chan Event, 4)
	unsub := bus.Subscribe(func(e Event) { got <- e })
	unsub()

	bus.Publish(NewEvent(EventTaskFailed, nil))

	select {
	case e := <-got:
		t.Fatalf("received event after unsubscribe: %s", e.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHistoryKeepsRecentEvents(t *testing.T) {
	rb := newRingBuffer(3)
	for i := 0; i < 5; i++ {
		rb.add(NewEvent(EventTaskSubmitted, map[string]any{"n": i}))
	}

	events := rb.get(0)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Payload["n"] != 2 || events[2].Payload["n"] != 4 {
		t.Fatalf("unexpected window: %v, %v", events[0].Payload, events[2].Payload)
	}
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	bus := NewBus(4)
	bus.Close()
	bus.Publish(NewEvent(EventTaskSubmitted, nil))
	if got := len(bus.History(0)); got != 0 {
		t.Fatalf("expected empty history, got %d", got)
	}
}
