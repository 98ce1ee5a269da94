package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jdziat/simple-sequential-jobs/pkg/core"
	"github.com/jdziat/simple-sequential-jobs/pkg/queue"
	"github.com/jdziat/simple-sequential-jobs/pkg/security"
)

// Source is anything that emits queue events. *queue.Queue satisfies it.
type Source interface {
	On(t core.EventType, l core.Listener) queue.ListenerID
	Off(t core.EventType, id queue.ListenerID) bool
}

// Recorder writes queue events to the database.
type Recorder struct {
	db      *gorm.DB
	logger  *slog.Logger
	timeout time.Duration

	mu  sync.Mutex
	seq int64
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithLogger sets the logger used to report write failures. Nil is ignored.
func WithLogger(l *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if l != nil {
			r.logger = l
		}
	}
}

// WriteTimeout bounds each write made from an attached listener.
func WriteTimeout(d time.Duration) RecorderOption {
	return func(r *Recorder) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewRecorder creates a GORM-backed event recorder.
func NewRecorder(db *gorm.DB, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		db:      db,
		logger:  slog.Default(),
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Migrate creates the events table and resumes the sequence after the
// highest stored record.
func (r *Recorder) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&EventRecord{}); err != nil {
		return fmt.Errorf("jobs: migrate history: %w", err)
	}

	var maxSeq int64
	err := r.db.WithContext(ctx).
		Model(&EventRecord{}).
		Select("COALESCE(MAX(seq), 0)").
		Row().
		Scan(&maxSeq)
	if err != nil {
		return fmt.Errorf("jobs: read history sequence: %w", err)
	}

	r.mu.Lock()
	if maxSeq > r.seq {
		r.seq = maxSeq
	}
	r.mu.Unlock()
	return nil
}

func (r *Recorder) nextSeq() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq
}

// Record stores a single event.
func (r *Recorder) Record(ctx context.Context, e core.Event) (*EventRecord, error) {
	rec := &EventRecord{
		ID:        uuid.New().String(),
		Seq:       r.nextSeq(),
		QueueID:   e.ID,
		Type:      e.Type,
		JobName:   e.Detail.Name,
		Count:     e.Detail.Count,
		Message:   e.Detail.Message,
		CreatedAt: e.Timestamp,
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if e.Detail.Error != nil {
		rec.Error = security.SanitizeErrorMessage(e.Detail.Error.Error())
	}
	if e.Detail.Result != nil {
		rec.Result = encodeResult(e.Detail.Result)
	}

	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("jobs: record %s event: %w", e.Type, err)
	}
	return rec, nil
}

// encodeResult renders a job result as JSON, falling back to fmt for values
// JSON cannot represent.
func encodeResult(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return security.SanitizeErrorMessage(fmt.Sprintf("%v", v))
	}
	return string(data)
}

// Attach records every event the source emits until the returned detach
// function is called. Write failures are logged, never returned to the queue.
func (r *Recorder) Attach(src Source) (detach func()) {
	ids := make(map[core.EventType]queue.ListenerID, len(core.EventTypes))
	for _, t := range core.EventTypes {
		ids[t] = src.On(t, r.listen)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for t, id := range ids {
				src.Off(t, id)
			}
		})
	}
}

func (r *Recorder) listen(e core.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if _, err := r.Record(ctx, e); err != nil {
		r.logger.Warn("failed to record queue event", "queue", e.ID, "event", string(e.Type), "error", err)
	}
}

// Get returns a record by ID, or nil if it does not exist.
func (r *Recorder) Get(ctx context.Context, id string) (*EventRecord, error) {
	var rec EventRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns a queue's events in emission order. A limit of zero or less
// returns every event.
func (r *Recorder) List(ctx context.Context, queueID string, limit int) ([]*EventRecord, error) {
	var records []*EventRecord
	query := r.db.WithContext(ctx).
		Where("queue_id = ?", queueID).
		Order("seq ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&records).Error
	return records, err
}

// ListByType returns a queue's events of one type in emission order.
func (r *Recorder) ListByType(ctx context.Context, queueID string, t core.EventType, limit int) ([]*EventRecord, error) {
	var records []*EventRecord
	query := r.db.WithContext(ctx).
		Where("queue_id = ? AND type = ?", queueID, t).
		Order("seq ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&records).Error
	return records, err
}

// CountByType returns how many events of each type a queue has emitted.
func (r *Recorder) CountByType(ctx context.Context, queueID string) (map[core.EventType]int64, error) {
	var rows []struct {
		Type  core.EventType
		Total int64
	}
	err := r.db.WithContext(ctx).
		Model(&EventRecord{}).
		Select("type, COUNT(*) AS total").
		Where("queue_id = ?", queueID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[core.EventType]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Total
	}
	return counts, nil
}

// Prune deletes events recorded before olderThan ago and returns how many were removed.
func (r *Recorder) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&EventRecord{})
	return result.RowsAffected, result.Error
}
