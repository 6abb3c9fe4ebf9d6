package sync

// EventType identifies a sync lifecycle notification.
type EventType string

const (
	EventSyncStarted   EventType = "sync_started"
	EventSyncCompleted EventType = "sync_completed"
	EventSyncFailed    EventType = "sync_failed"
)

// Event is delivered to listeners at each sync lifecycle transition.
// Uploaded and Downloaded are only meaningful on completion; Err is only
// set on failure.
type Event struct {
	Type       EventType
	Uploaded   int
	Downloaded int
	Err        error
}

// Listener receives sync events. Listeners are invoked synchronously in
// registration order, so they should return quickly.
type Listener func(Event)
