// Package queue provides the sequential Queue engine for the jobs package.
//
// This package includes:
//   - Queue: a FIFO of deferred jobs executed strictly one at a time
//   - A state machine (waiting, running, paused) gating the run loop
//   - Single step execution with a minimum spacing between jobs
//   - A typed event bus with listener and channel subscribers
//   - Option: configuration for queue construction
//
// Most users should import the root package github.com/jdziat/simple-sequential-jobs
// which re-exports Queue and all option functions.
package queue
