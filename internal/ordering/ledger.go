// Package ordering keeps the per-day position of tasks contiguous.
//
// A Ledger works on a snapshot of one day's tasks and only computes
// adjustments; applying them to storage is the caller's job. Ties in order
// keep the sequence the caller supplied.
package ordering

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

type Entry struct {
	TaskID uuid.UUID `json:"task_id"`
	Order  int       `json:"order"`
}

type Adjustment struct {
	TaskID   uuid.UUID `json:"task_id"`
	OldOrder int       `json:"old_order"`
	NewOrder int       `json:"new_order"`
}

type Plan struct {
	Date        string       `json:"date"`
	Adjustments []Adjustment `json:"adjustments"`
	Summary     string       `json:"summary"`
}

func (p Plan) Empty() bool {
	return len(p.Adjustments) == 0
}

// Apply returns a copy of entries with the plan's new orders.
func (p Plan) Apply(entries []Entry) []Entry {
	byID := make(map[uuid.UUID]int, len(p.Adjustments))
	for _, adj := range p.Adjustments {
		byID[adj.TaskID] = adj.NewOrder
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e
		if order, ok := byID[e.TaskID]; ok {
			out[i].Order = order
		}
	}
	return out
}

type Ledger struct {
	date    string
	entries []Entry
}

func NewLedger(date string, entries []Entry) *Ledger {
	return &Ledger{
		date:    date,
		entries: append([]Entry(nil), entries...),
	}
}

// NextOrder is one past the highest order, or 1 for an empty day.
func (l *Ledger) NextOrder() int {
	maxOrder := 0
	for _, e := range l.entries {
		if e.Order > maxOrder {
			maxOrder = e.Order
		}
	}
	return maxOrder + 1
}

// InsertAt opens a gap at position by shifting every task at or after it.
// exclude is the task being placed, when it already exists.
func (l *Ledger) InsertAt(position int, exclude *uuid.UUID) Plan {
	if position < 1 {
		position = 1
	}
	plan := Plan{Date: l.date, Adjustments: []Adjustment{}}
	for _, e := range l.entries {
		if exclude != nil && e.TaskID == *exclude {
			continue
		}
		if e.Order >= position {
			plan.Adjustments = append(plan.Adjustments, Adjustment{
				TaskID:   e.TaskID,
				OldOrder: e.Order,
				NewOrder: e.Order + 1,
			})
		}
	}
	if plan.Empty() {
		plan.Summary = fmt.Sprintf("position %d on %s is free", position, l.date)
	} else {
		plan.Summary = fmt.Sprintf("shifted %d task(s) on %s to free position %d", len(plan.Adjustments), l.date, position)
	}
	return plan
}

// MoveTo relocates taskID and shifts only the tasks between its old and new
// position. The moved task's own adjustment is part of the plan.
func (l *Ledger) MoveTo(taskID uuid.UUID, newPosition int) Plan {
	plan := Plan{Date: l.date, Adjustments: []Adjustment{}}

	oldPosition, found := 0, false
	for _, e := range l.entries {
		if e.TaskID == taskID {
			oldPosition, found = e.Order, true
			break
		}
	}
	if !found {
		plan.Summary = fmt.Sprintf("task %s is not scheduled on %s", taskID, l.date)
		return plan
	}
	if newPosition < 1 {
		newPosition = 1
	}
	if newPosition == oldPosition {
		plan.Summary = fmt.Sprintf("task %s is already at position %d", taskID, newPosition)
		return plan
	}

	for _, e := range l.entries {
		if e.TaskID == taskID {
			continue
		}
		switch {
		case newPosition > oldPosition && e.Order > oldPosition && e.Order <= newPosition:
			plan.Adjustments = append(plan.Adjustments, Adjustment{TaskID: e.TaskID, OldOrder: e.Order, NewOrder: e.Order - 1})
		case newPosition < oldPosition && e.Order >= newPosition && e.Order < oldPosition:
			plan.Adjustments = append(plan.Adjustments, Adjustment{TaskID: e.TaskID, OldOrder: e.Order, NewOrder: e.Order + 1})
		}
	}
	plan.Adjustments = append(plan.Adjustments, Adjustment{TaskID: taskID, OldOrder: oldPosition, NewOrder: newPosition})
	plan.Summary = fmt.Sprintf("moved task %s on %s from %d to %d, %d other task(s) shifted",
		taskID, l.date, oldPosition, newPosition, len(plan.Adjustments)-1)
	return plan
}

// Normalize renumbers the day as 1..N keeping relative order and returns
// only the entries whose order changes.
func (l *Ledger) Normalize() Plan {
	sorted := append([]Entry(nil), l.entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	plan := Plan{Date: l.date, Adjustments: []Adjustment{}}
	for i, e := range sorted {
		if e.Order != i+1 {
			plan.Adjustments = append(plan.Adjustments, Adjustment{TaskID: e.TaskID, OldOrder: e.Order, NewOrder: i + 1})
		}
	}
	if plan.Empty() {
		plan.Summary = fmt.Sprintf("%s is already contiguous", l.date)
	} else {
		plan.Summary = fmt.Sprintf("renumbered %d task(s) on %s", len(plan.Adjustments), l.date)
	}
	return plan
}
