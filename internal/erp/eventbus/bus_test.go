package eventbus

import "testing"

func TestPublishOrderAndPayload(t *testing.T) {
	bus := New()

	var calls []string
	bus.Subscribe(TopicScheduleCreated, func(ev Event) {
		calls = append(calls, "first:"+ev.OrderID)
	})
	bus.Subscribe(TopicScheduleCreated, func(ev Event) {
		calls = append(calls, "second:"+ev.OrderID)
	})
	bus.Subscribe(TopicRejectedOrderCreated, func(ev Event) {
		t.Errorf("handler on other topic must not fire")
	})

	bus.Publish(Event{Topic: TopicScheduleCreated, OrderID: "ord-001", SKU: "SKU-A"})

	want := []string{"first:ord-001", "second:ord-001"}
	if len(calls) != len(want) {
		t.Fatalf("got %d calls, want %d", len(calls), len(want))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d = %s, want %s", i, calls[i], want[i])
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := New()

	count := 0
	unsub := bus.Subscribe(TopicQualityIntakeCreated, func(Event) { count++ })

	bus.Publish(Event{Topic: TopicQualityIntakeCreated})
	unsub()
	bus.Publish(Event{Topic: TopicQualityIntakeCreated})

	if count != 1 {
		t.Fatalf("handler called %d times, want 1", count)
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	bus := New()
	// 没有订阅者时发布不panic
	bus.Publish(Event{Topic: TopicRejectedOrderCreated, OrderID: "ord-001"})
}
