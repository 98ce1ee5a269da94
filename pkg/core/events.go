package core

import "time"

// EventType identifies a queue lifecycle transition.
type EventType string

const (
	EventAdd     EventType = "add"     // Jobs appended
	EventClear   EventType = "clear"   // Pending jobs discarded
	EventDone    EventType = "done"    // Job succeeded
	EventEnd     EventType = "end"     // Sequence just drained
	EventExecute EventType = "execute" // About to run a job
	EventFail    EventType = "fail"    // Job failed
	EventInfo    EventType = "info"    // Non-fatal usage notice
	EventNext    EventType = "next"    // About to pull the next job
	EventPause   EventType = "pause"   // Queue paused
	EventStart   EventType = "start"   // Run loop launching
	EventWait    EventType = "wait"    // Queue now idle
)

// EventTypes lists every event type a queue emits.
var EventTypes = []EventType{
	EventAdd,
	EventClear,
	EventDone,
	EventEnd,
	EventExecute,
	EventFail,
	EventInfo,
	EventNext,
	EventPause,
	EventStart,
	EventWait,
}

// Info messages carried by EventInfo.
const (
	MessageEmpty    = "EMPTY"
	MessageNotStart = "NOTSTART"
)

// Detail is the operation specific payload of an Event.
// Only the fields relevant to the event type are set.
type Detail struct {
	Count   int    // add, clear, start
	Name    string // execute, done, fail
	Result  any    // done
	Error   error  // fail
	Message string // info
}

// Event is emitted by a queue on every lifecycle transition.
type Event struct {
	Type      EventType
	ID        string // Queue instance identifier
	Detail    Detail
	Timestamp time.Time
}

// Listener receives events of the type it was registered for.
type Listener func(Event)
