// Package history appends completion and forward records to tasks and
// reconciles the two logs when they drift apart.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"organizese/internal/models/task"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus  = errors.New("invalid completion status")
	ErrInvalidDate    = errors.New("invalid destination date")
	ErrNothingToMove  = errors.New("forward must change the date or the recipient")
	ErrChainCorrupted = errors.New("forward chain loops back on itself")
)

// RecordCompletion appends a completion record dated with the task's current
// scheduled date and re-projects the live status. Calling it twice appends twice.
func RecordCompletion(t *task.Task, status task.Status, at time.Time, wasForwarded bool) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	t.CompletionHistory = append(t.CompletionHistory, task.CompletionRecord{
		Date:         t.ScheduledDate,
		Status:       status,
		RecordedAt:   at,
		WasForwarded: wasForwarded,
	})
	t.ProjectStatus()
	return nil
}

// RecordForward annotates t with an outbound forward record and returns the
// spawned task. The spawned task has no id-based ownership link other than
// OriginTaskID; its order is left for the caller to assign.
func RecordForward(t *task.Task, newDate, reason string, recipient *uuid.UUID, at time.Time) (*task.Task, error) {
	if _, err := task.ParseDate(newDate); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, newDate)
	}
	if newDate == t.ScheduledDate && recipient == nil {
		return nil, ErrNothingToMove
	}

	spawned := t.Clone()
	spawned.ID = uuid.New()
	spawned.ScheduledDate = newDate
	spawned.Order = 0
	spawned.CompletionHistory = []task.CompletionRecord{}
	spawned.ForwardCount = 0
	spawned.IsForwarded = false
	spawned.Version = 0
	spawned.CreatedAt = time.Time{}
	spawned.UpdatedAt = nil
	originID := t.ID
	spawned.OriginTaskID = &originID
	if recipient != nil {
		r := *recipient
		spawned.AssigneeID = &r
	}

	record := task.ForwardRecord{
		OriginDate:      t.ScheduledDate,
		DestinationDate: newDate,
		Status:          t.Status,
		RecipientID:     recipient,
		Reason:          reason,
		ForwardedAt:     at,
	}

	outbound := record
	spawnedID := spawned.ID
	outbound.SpawnedTaskID = &spawnedID
	t.ForwardHistory = append(t.ForwardHistory, outbound)
	t.ForwardCount++
	t.IsForwarded = true

	inbound := record
	sourceID := t.ID
	inbound.SourceTaskID = &sourceID
	spawned.ForwardHistory = []task.ForwardRecord{inbound}
	spawned.ProjectStatus()

	return spawned, nil
}

// Lookup fetches a task by id.
type Lookup func(ctx context.Context, id uuid.UUID) (*task.Task, error)

// Chain returns every instance linked to t by forwarding, oldest first.
// The last element is the live instance.
func Chain(ctx context.Context, lookup Lookup, t *task.Task) ([]*task.Task, error) {
	visited := map[uuid.UUID]bool{t.ID: true}
	chain := []*task.Task{t}

	for cur := t; cur.OriginTaskID != nil; {
		if visited[*cur.OriginTaskID] {
			return nil, ErrChainCorrupted
		}
		prev, err := lookup(ctx, *cur.OriginTaskID)
		if err != nil {
			return nil, fmt.Errorf("origin %s: %w", cur.OriginTaskID, err)
		}
		visited[prev.ID] = true
		chain = append([]*task.Task{prev}, chain...)
		cur = prev
	}

	for cur := t; ; {
		next := lastSpawned(cur)
		if next == nil {
			break
		}
		if visited[*next] {
			return nil, ErrChainCorrupted
		}
		spawned, err := lookup(ctx, *next)
		if err != nil {
			return nil, fmt.Errorf("spawned %s: %w", next, err)
		}
		visited[spawned.ID] = true
		chain = append(chain, spawned)
		cur = spawned
	}
	return chain, nil
}

func lastSpawned(t *task.Task) *uuid.UUID {
	for i := len(t.ForwardHistory) - 1; i >= 0; i-- {
		if t.ForwardHistory[i].Outbound() {
			return t.ForwardHistory[i].SpawnedTaskID
		}
	}
	return nil
}
