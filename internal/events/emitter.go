// Package events is the in-process event channel: the bridge emits data
// change and sync completion notifications independently of any pending
// call, and subscribers (the WebSocket push path) receive them as JSON
// friendly frames.
package events

import (
	"sync"
	"time"

	"github.com/claude/healthbridge/internal/models"
	"github.com/claude/healthbridge/internal/observability"
)

// Event names on the wire.
const (
	EventHealthDataChange       = "onHealthDataChange"
	EventBackgroundSyncComplete = "onBackgroundSyncComplete"
)

// HealthDataChange is emitted when new records land in a mirror store.
type HealthDataChange struct {
	DataType     string `json:"dataType"`
	SamplesAdded int    `json:"samplesAdded"`
	Timestamp    string `json:"timestamp"`
}

// BackgroundSyncComplete is emitted after each background sync tick.
type BackgroundSyncComplete struct {
	Success         bool                `json:"success"`
	SyncedDataTypes []string            `json:"syncedDataTypes"`
	Timestamp       string              `json:"timestamp"`
	Error           *models.BridgeError `json:"error,omitempty"`
}

// Event is one emitted frame.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}

// Emitter fans events out to subscribers. Publishing never blocks: a
// subscriber whose buffer is full misses the event.
type Emitter struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

// NewEmitter creates an Emitter with no subscribers.
func NewEmitter() *Emitter {
	return &Emitter{subs: map[int]chan Event{}}
}

// Subscribe registers a subscriber. The returned cancel func removes the
// subscription and closes the channel.
func (e *Emitter) Subscribe() (<-chan Event, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	ch := make(chan Event, 16)
	e.subs[id] = ch

	cancel := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if sub, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Emit publishes an event to all current subscribers.
func (e *Emitter) Emit(ev Event) {
	observability.RecordEvent(ev.Name)
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ch := range e.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// EmitHealthDataChange publishes a data change notification stamped now.
func (e *Emitter) EmitHealthDataChange(dataType string, samplesAdded int) {
	e.Emit(Event{
		Name: EventHealthDataChange,
		Payload: HealthDataChange{
			DataType:     dataType,
			SamplesAdded: samplesAdded,
			Timestamp:    models.FormatISO(time.Now()),
		},
	})
}

// EmitBackgroundSyncComplete publishes a sync completion notification.
func (e *Emitter) EmitBackgroundSyncComplete(payload BackgroundSyncComplete) {
	e.Emit(Event{Name: EventBackgroundSyncComplete, Payload: payload})
}
