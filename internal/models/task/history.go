package task

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is one item of a task's audit trail.
// Implemented by CompletionRecord and ForwardRecord only.
type HistoryEntry interface {
	Kind() string
	At() time.Time
	historyEntry()
}

const (
	KindCompletion = "completion"
	KindForward    = "forward"
)

type CompletionRecord struct {
	Date         string    `json:"date"`
	Status       Status    `json:"status"`
	RecordedAt   time.Time `json:"recorded_at"`
	WasForwarded bool      `json:"was_forwarded"`
}

func (CompletionRecord) Kind() string    { return KindCompletion }
func (c CompletionRecord) At() time.Time { return c.RecordedAt }
func (CompletionRecord) historyEntry()   {}

type ForwardRecord struct {
	OriginDate      string     `json:"origin_date"`
	DestinationDate string     `json:"destination_date"`
	Status          Status     `json:"status"`
	RecipientID     *uuid.UUID `json:"recipient_id,omitempty"`
	Reason          string     `json:"reason"`
	ForwardedAt     time.Time  `json:"forwarded_at"`
	// SpawnedTaskID is set on the record kept by the forwarded task.
	SpawnedTaskID *uuid.UUID `json:"spawned_task_id,omitempty"`
	// SourceTaskID is set on the breadcrumb carried by the spawned task.
	SourceTaskID *uuid.UUID `json:"source_task_id,omitempty"`
}

func (ForwardRecord) Kind() string    { return KindForward }
func (f ForwardRecord) At() time.Time { return f.ForwardedAt }
func (ForwardRecord) historyEntry()   {}

// Outbound reports whether this record originated a new task.
func (f ForwardRecord) Outbound() bool {
	return f.SpawnedTaskID != nil
}

// Timeline merges both logs ordered by time. Entries recorded at the same
// instant keep completion-before-forward order.
func (t *Task) Timeline() []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(t.CompletionHistory)+len(t.ForwardHistory))
	for _, c := range t.CompletionHistory {
		entries = append(entries, c)
	}
	for _, f := range t.ForwardHistory {
		entries = append(entries, f)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].At().Before(entries[j].At())
	})
	return entries
}
