package history

import (
	"time"

	"github.com/jdziat/simple-sequential-jobs/pkg/core"
)

// EventRecord is one persisted queue event.
type EventRecord struct {
	ID        string         `gorm:"primaryKey;size:36"`
	Seq       int64          `gorm:"index;not null"`
	QueueID   string         `gorm:"index:idx_queue_events_queue_type;size:255;not null"`
	Type      core.EventType `gorm:"index:idx_queue_events_queue_type;size:16;not null"`
	JobName   string         `gorm:"size:255"`
	Count     int
	Message   string    `gorm:"size:32"`
	Error     string    `gorm:"type:text"`
	Result    string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName returns the table events are stored in.
func (EventRecord) TableName() string {
	return "queue_events"
}

// Failed reports whether the record is a job failure.
func (r *EventRecord) Failed() bool {
	return r.Type == core.EventFail
}
