// Package history records queue lifecycle events in a SQL database through GORM.
//
// A Recorder attaches to a queue as an ordinary listener and writes one
// EventRecord row per event. Records are an audit trail only: they are never
// read back into a queue.
//
// Example:
//
//	db, _ := history.Open("history.db")
//	rec := history.NewRecorder(db)
//	_ = rec.Migrate(ctx)
//	detach := rec.Attach(q)
//	defer detach()
package history
