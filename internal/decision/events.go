package decision

import (
	"sync/atomic"
	"time"

	"github.com/ShayCichocki/quorum/pkg/models"
)

// EventType identifies a decision lifecycle event.
type EventType string

const (
	// EventTriggered fires when a new decision is created.
	EventTriggered EventType = "triggered"
	// EventPhaseAdvanced fires on every explicit phase transition.
	EventPhaseAdvanced EventType = "phase_advanced"
	// EventProposalSubmitted fires when a proposal is recorded.
	EventProposalSubmitted EventType = "proposal_submitted"
	// EventOptionsSynthesized fires when a voting option set is installed.
	EventOptionsSynthesized EventType = "options_synthesized"
	// EventVoteSubmitted fires when a ballot is recorded.
	EventVoteSubmitted EventType = "vote_submitted"
	// EventTallyCompleted fires when the auto-tally determines a winner.
	EventTallyCompleted EventType = "tally_completed"
	// EventFinalized fires when a decision moves to completed storage.
	EventFinalized EventType = "finalized"
)

// Event describes one decision lifecycle change.
type Event struct {
	Type       EventType
	DecisionID string
	// Agent is set for proposal and vote events.
	Agent string
	Phase models.Phase
	Time  time.Time
}

// EventEmitter fans decision events out to a subscriber over a buffered
// channel. It never blocks engine operations: when the channel stays full
// past a short grace period the event is dropped and counted.
type EventEmitter struct {
	events       chan Event
	droppedCount atomic.Uint64
}

// NewEventEmitter creates an emitter with the given buffer size.
func NewEventEmitter(bufferSize int) *EventEmitter {
	return &EventEmitter{
		events: make(chan Event, bufferSize),
	}
}

// Emit sends an event to the channel, dropping it after a short timeout if
// the subscriber cannot keep up.
func (e *EventEmitter) Emit(event Event) {
	select {
	case e.events <- event:
		return
	default:
	}

	// Give the receiver a moment to drain before dropping.
	select {
	case e.events <- event:
	case <-time.After(100 * time.Millisecond):
		e.droppedCount.Add(1)
	}
}

// DroppedCount returns how many events have been dropped so far.
func (e *EventEmitter) DroppedCount() uint64 {
	return e.droppedCount.Load()
}

// Events returns the read side of the event channel.
func (e *EventEmitter) Events() <-chan Event {
	return e.events
}

// Close closes the event channel. Call only after the engine has stopped
// emitting.
func (e *EventEmitter) Close() {
	close(e.events)
}
