package decision

import (
	"testing"
	"time"
)

func TestEventEmitter_DeliversInOrder(t *testing.T) {
	em := NewEventEmitter(4)

	em.Emit(Event{Type: EventTriggered, DecisionID: "d1"})
	em.Emit(Event{Type: EventPhaseAdvanced, DecisionID: "d1"})
	em.Close()

	var got []EventType
	for ev := range em.Events() {
		got = append(got, ev.Type)
	}
	if len(got) != 2 || got[0] != EventTriggered || got[1] != EventPhaseAdvanced {
		t.Errorf("received events = %v", got)
	}
	if em.DroppedCount() != 0 {
		t.Errorf("dropped count = %d, want 0", em.DroppedCount())
	}
}

func TestEventEmitter_DropsWhenSubscriberStalls(t *testing.T) {
	em := NewEventEmitter(1)

	em.Emit(Event{Type: EventTriggered, DecisionID: "d1"})

	// Nobody is draining, so this second emit must give up after the grace
	// period instead of blocking forever.
	done := make(chan struct{})
	go func() {
		em.Emit(Event{Type: EventVoteSubmitted, DecisionID: "d1"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked with a full channel and no subscriber")
	}
	if em.DroppedCount() != 1 {
		t.Errorf("dropped count = %d, want 1", em.DroppedCount())
	}
}

func TestEventEmitter_RecoversWhenSubscriberDrains(t *testing.T) {
	em := NewEventEmitter(1)
	em.Emit(Event{Type: EventTriggered, DecisionID: "d1"})

	// Drain while a second emit waits inside its grace period.
	go func() {
		time.Sleep(20 * time.Millisecond)
		<-em.Events()
	}()
	em.Emit(Event{Type: EventVoteSubmitted, DecisionID: "d1"})

	if em.DroppedCount() != 0 {
		t.Errorf("dropped count = %d, want 0 after the subscriber drained", em.DroppedCount())
	}
	ev := <-em.Events()
	if ev.Type != EventVoteSubmitted {
		t.Errorf("remaining event = %s, want %s", ev.Type, EventVoteSubmitted)
	}
}
