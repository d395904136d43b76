package bus

import "testing"

func TestEmitDeliversInSubscriptionOrder(t *testing.T) {
	b := New()

	var got []int
	b.Subscribe(AudioPlay, func(Event) { got = append(got, 1) })
	b.Subscribe(AudioPlay, func(Event) { got = append(got, 2) })
	b.Subscribe(AudioPlay, func(Event) { got = append(got, 3) })

	b.Emit(Play())

	if len(got) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(got))
	}
	for i, v := range got {
		if v != i+1 {
			t.Errorf("delivery %d = handler %d, want handler %d", i, v, i+1)
		}
	}
}

func TestEmitOnlyMatchingType(t *testing.T) {
	b := New()

	var plays, pauses int
	b.Subscribe(AudioPlay, func(Event) { plays++ })
	b.Subscribe(AudioPause, func(Event) { pauses++ })

	b.Emit(Play())
	b.Emit(Play())
	b.Emit(Pause())

	if plays != 2 {
		t.Errorf("plays = %d, want 2", plays)
	}
	if pauses != 1 {
		t.Errorf("pauses = %d, want 1", pauses)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()

	var calls int
	sub := b.Subscribe(ActionSetTime, func(Event) { calls++ })

	b.Emit(SetTime(10))
	b.Unsubscribe(sub)
	b.Emit(SetTime(20))
	// double unsubscribe is a no-op
	b.Unsubscribe(sub)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestEventPayloads(t *testing.T) {
	tests := []struct {
		name string
		e    Event
		typ  EventType
	}{
		{"waiting", Waiting(), AudioWaiting},
		{"canPlayThrough", CanPlayThrough(200), AudioCanPlayThrough},
		{"timeUpdated", TimeUpdated(1500), AudioTimeUpdated},
		{"setTime", SetTime(42), ActionSetTime},
		{"next", Next(), ActionNext},
		{"volume", VolumeChanged(0.5), SettingVolumeChanged},
	}

	for _, tt := range tests {
		if tt.e.Type != tt.typ {
			t.Errorf("%s: type = %v, want %v", tt.name, tt.e.Type, tt.typ)
		}
	}

	if e := CanPlayThrough(200); e.DurationSeconds != 200 {
		t.Errorf("CanPlayThrough duration = %v, want 200", e.DurationSeconds)
	}
	if e := TimeUpdated(1500); e.CurrentMillisecond != 1500 {
		t.Errorf("TimeUpdated millisecond = %v, want 1500", e.CurrentMillisecond)
	}
	if e := SetTime(42); e.Second != 42 {
		t.Errorf("SetTime second = %v, want 42", e.Second)
	}
}

func TestRelaySwapKeepsIdentity(t *testing.T) {
	b := New()

	var first, second int
	relay := NewRelay(func(Event) { first++ })
	sub := b.Subscribe(AudioTimeUpdated, relay.Handle)

	b.Emit(TimeUpdated(0))

	relay.Swap(func(Event) { second++ })
	b.Emit(TimeUpdated(300))

	if first != 1 || second != 1 {
		t.Errorf("first = %d, second = %d, want 1 and 1", first, second)
	}

	b.Unsubscribe(sub)
	b.Emit(TimeUpdated(600))
	if second != 1 {
		t.Errorf("handler still called after unsubscribe: second = %d", second)
	}
}

func TestRelayNilHandlerDropsEvents(t *testing.T) {
	relay := NewRelay(nil)
	// must not panic
	relay.Handle(Play())

	var calls int
	relay.Swap(func(Event) { calls++ })
	relay.Handle(Play())
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
