package core

// State is the state of a queue. Exactly one is active at any instant.
type State string

const (
	StateWaiting State = "waiting" // No run loop, no job in flight
	StateRunning State = "running" // Run loop holds control
	StatePaused  State = "paused"  // Run loop stops pulling new jobs
)
