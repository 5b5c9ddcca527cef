package service

import (
	"context"
	"fmt"
	"strings"

	"organizese/internal/history"
	"organizese/internal/logger"
	"organizese/internal/models/task"
	"organizese/internal/ordering"
	"organizese/internal/schedule"
	"organizese/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resourceTask = "task"

type TaskService struct {
	repo      TaskRepository
	directory Directory
	clock     schedule.Clock
}

// NewTaskService wires the service. directory may be nil, in which case
// assignee ids are not checked.
func NewTaskService(repo TaskRepository, directory Directory, clock schedule.Clock) *TaskService {
	return &TaskService{
		repo:      repo,
		directory: directory,
		clock:     clock,
	}
}

type CreateResult struct {
	Tasks []*task.Task `json:"tasks"`
	Plan  ordering.Plan `json:"plan"`
}

type ForwardRequest struct {
	NewDate     string
	Reason      string
	RecipientID *uuid.UUID
	// MarkNotDone records a not-done completion flagged as forwarded first.
	MarkNotDone bool
}

type ForwardResult struct {
	Original *task.Task `json:"original"`
	Spawned  *task.Task `json:"spawned"`
}

type RepairSummary struct {
	Checked  int                    `json:"checked"`
	Repaired int                    `json:"repaired"`
	Skipped  int                    `json:"skipped"`
	Reports  []history.RepairReport `json:"reports"`
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("service health check: %w", err)
	}
	return nil
}

func (s *TaskService) Today() string {
	return s.clock.Today()
}

// CreateTask validates the template, expands routines and places the new
// tasks in the day's order before persisting them.
func (s *TaskService) CreateTask(ctx context.Context, tpl task.Template) (*CreateResult, error) {
	owner, err := session.OwnerFromContext(ctx)
	if err != nil {
		return nil, translate(err, "create task", resourceTask, "")
	}
	tpl.OwnerID = owner
	applyTemplateDefaults(&tpl, s.clock.Today())

	if err := validateTemplate(tpl); err != nil {
		logger.Info("Service: task template rejected", zap.Error(err))
		return nil, err
	}
	if err := s.checkAssignee(ctx, owner, tpl.AssigneeID); err != nil {
		return nil, err
	}

	payloads, err := schedule.Expand(tpl, 1)
	if err != nil {
		return nil, translate(err, "expand template", resourceTask, "")
	}
	if len(payloads) == 0 {
		return nil, NewValidationError("routine", "the routine produced no dates")
	}

	// A weekend start date may be skipped, so the ledger follows the first
	// generated payload rather than the template.
	firstDate := payloads[0].ScheduledDate
	ledger, err := s.ledgerFor(ctx, owner, firstDate)
	if err != nil {
		return nil, err
	}

	base := ledger.NextOrder()
	plan := ordering.Plan{Date: firstDate, Adjustments: []ordering.Adjustment{}}
	if tpl.Position != nil && *tpl.Position < base {
		plan = ledger.InsertAt(*tpl.Position, nil)
		base = max(*tpl.Position, 1)
	}

	for i, p := range payloads {
		p.Order = base + i
		p.ID = uuid.New()
		for j := range p.SubItems {
			p.SubItems[j].ID = uuid.New()
			p.SubItems[j].Order = j + 1
		}
	}

	if !plan.Empty() {
		if err := s.repo.ApplyOrder(ctx, plan.Adjustments); err != nil {
			return nil, translate(err, "open position", resourceTask, "")
		}
	}
	if len(payloads) == 1 {
		err = s.repo.Create(ctx, payloads[0])
	} else {
		err = s.repo.CreateBatch(ctx, payloads)
	}
	if err != nil {
		return nil, translate(err, "persist tasks", resourceTask, "")
	}

	logger.Info("Service: tasks created",
		zap.Int("count", len(payloads)),
		zap.Bool("routine", tpl.IsRoutine),
		zap.String("first_date", firstDate))
	return &CreateResult{Tasks: payloads, Plan: plan}, nil
}

func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	owner, err := session.OwnerFromContext(ctx)
	if err != nil {
		return nil, translate(err, "get task", resourceTask, id.String())
	}
	return s.getOwned(ctx, owner, id)
}

func (s *TaskService) getOwned(ctx context.Context, owner, id uuid.UUID) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get task", resourceTask, id.String())
	}
	if t.OwnerID != owner {
		logger.Info("Service: task belongs to another tenant", zap.String("target_id", id.String()))
		return nil, NewNotFound(resourceTask, id.String())
	}
	return t, nil
}

func (s *TaskService) ListByDate(ctx context.Context, date string) ([]*task.Task, error) {
	owner, err := session.OwnerFromContext(ctx)
	if err != nil {
		return nil, translate(err, "list tasks", resourceTask, "")
	}
	if date == "" {
		date = s.clock.Today()
	}
	if _, err := task.ParseDate(date); err != nil {
		return nil, NewValidationError("date", "expected yyyy-MM-dd")
	}
	tasks, err := s.repo.ListByDate(ctx, owner, date)
	if err != nil {
		return nil, translate(err, "list tasks", resourceTask, "")
	}
	return tasks, nil
}

// UpdateTask applies options and, when requested, a new position. Moving a
// task to another day appends it there (or inserts it at position) and closes
// the gap it leaves behind.
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, position *int, options ...task.TaskOption) (*task.Task, error) {
	owner, err := session.OwnerFromContext(ctx)
	if err != nil {
		return nil, translate(err, "update task", resourceTask, id.String())
	}
	t, err := s.getOwned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	oldDate := t.ScheduledDate
	oldAssignee := t.AssigneeID
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
	if err := validateTask(t); err != nil {
		return nil, err
	}
	if t.AssigneeID != nil && (oldAssignee == nil || *oldAssignee != *t.AssigneeID) {
		if err := s.checkAssignee(ctx, owner, t.AssigneeID); err != nil {
			return nil, err
		}
	}

	var plan ordering.Plan
	switch {
	case t.ScheduledDate != oldDate:
		ledger, err := s.ledgerFor(ctx, owner, t.ScheduledDate)
		if err != nil {
			return nil, err
		}
		next := ledger.NextOrder()
		t.Order = next
		if position != nil && *position < next {
			plan = ledger.InsertAt(*position, &t.ID)
			t.Order = max(*position, 1)
		}
	case position != nil && *position != t.Order:
		ledger, err := s.ledgerFor(ctx, owner, t.ScheduledDate)
		if err != nil {
			return nil, err
		}
		target := min(max(*position, 1), ledger.NextOrder()-1)
		plan = ledger.MoveTo(t.ID, target)
		plan.Adjustments = withoutTask(plan.Adjustments, t.ID)
		t.Order = target
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, translate(err, "update task", resourceTask, id.String())
	}
	if len(plan.Adjustments) > 0 {
		if err := s.repo.ApplyOrder(ctx, plan.Adjustments); err != nil {
			return nil, translate(err, "shift tasks", resourceTask, id.String())
		}
	}
	if t.ScheduledDate != oldDate {
		if _, err := s.normalize(ctx, owner, oldDate); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) (ordering.Plan, error) {
	owner, err := session.OwnerFromContext(ctx)
	if err != nil {
		return ordering.Plan{}, translate(err, "delete task", resourceTask, id.String())
	}
	t, err := s.getOwned(ctx, owner, id)
	if err != nil {
		return ordering.Plan{}, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return ordering.Plan{}, translate(err, "delete task", resourceTask, id.String())
	}
	logger.Info("Service: task deleted", zap.String("task_id", id.String()))
	return s.normalize(ctx, owner, t.ScheduledDate)
}

// MoveTask changes a task's position within its day.
func (s *TaskService) MoveTask(ctx context.Context, id uuid.UUID, position int) (ordering.Plan, error) {
	owner, err := session.OwnerFromContext(ctx)
	if err != nil {
		return ordering.Plan{}, translate(err, "move task", resourceTask, id.String())
	}
	t, err := s.getOwned(ctx, owner, id)
	if err != nil {
		return ordering.Plan{}, err
	}
	ledger, err := s.ledgerFor(ctx, owner, t.ScheduledDate)
	if err != nil {
		return ordering.Plan{}, err
	}
	target := min(max(position, 1), ledger.NextOrder()-1)
	plan := ledger.MoveTo(id, target)
	if plan.Empty() {
		return plan, nil
	}
	if err := s.repo.ApplyOrder(ctx, plan.Adjustments); err != nil {
		return ordering.Plan{}, translate(err, "move task", resourceTask, id.String())
	}
	return plan, nil
}

func (s *TaskService) NextOrder(ctx context.Context, date string) (int, error) {
	owner, err := session.OwnerFromContext(ctx)
	if err != nil {
		return 0, translate(err, "next order", resourceTask, "")
	}
	if _, err := task.ParseDate(date); err != nil {
		return 0, NewValidationError("date", "expected yyyy-MM-dd")
	}
	ledger, err := s.ledgerFor(ctx, owner, date)
	if err != nil {
		return 0, err
	}
	return ledger.NextOrder(), nil
}

func (s *TaskService) NormalizeDate(ctx context.Context, date string) (ordering.Plan, error) {
	owner, err := session.OwnerFromContext(ctx)
	if err != nil {
		return ordering.Plan{}, translate(err, "normalize", resourceTask, "")
	}
	if _, err := task.ParseDate(date); err != nil {
		return ordering.Plan{}, NewValidationError("date", "expected yyyy-MM-dd")
	}
	return s.normalize(ctx, owner, date)
}

func (s *TaskService) normalize(ctx context.Context, owner uuid.UUID, date string) (ordering.Plan, error) {
	ledger, err := s.ledgerFor(ctx, owner, date)
	if err != nil {
		return ordering.Plan{}, err
	}
	plan := ledger.Normalize()
	if plan.Empty() {
		return plan, nil
	}
	if err := s.repo.ApplyOrder(ctx, plan.Adjustments); err != nil {
		return ordering.Plan{}, translate(err, "normalize", resourceTask, "")
	}
	return plan, nil
}

func (s *TaskService) ledgerFor(ctx context.Context, owner uuid.UUID, date string) (*ordering.Ledger, error) {
	day, err := s.repo.ListByDate(ctx, owner, date)
	if err != nil {
		return nil, translate(err, "load day", resourceTask, "")
	}
	entries := make([]ordering.Entry, len(day))
	for i, t := range day {
		entries[i] = ordering.Entry{TaskID: t.ID, Order: t.Order}
	}
	return ordering.NewLedger(date, entries), nil
}

// SetStatus appends a completion record; see task.ProjectStatus for how the
// live status follows it.
func (s *TaskService) SetStatus(ctx context.Context, id uuid.UUID, status task.Status, wasForwarded bool) (*task.Task, error) {
	owner, err := session.OwnerFromContext(ctx)
	if err != nil {
		return nil, translate(err, "set status", resourceTask, id.String())
	}
	t, err := s.getOwned(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if err := history.RecordCompletion(t, status, s.clock.Now(), wasForwarded); err != nil {
		return nil, NewValidationError("status", err.Error())
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, translate(err, "set status", resourceTask, id.String())
	}
	return t, nil
}

// ForwardTask annotates the task and spawns its continuation on the
// destination day, appended after that day's last task.
func (s *TaskService) ForwardTask(ctx context.Context, id uuid.UUID, req ForwardRequest) (*ForwardResult, error) {
	owner, err := session.OwnerFromContext(ctx)
	if err != nil {
		return nil, translate(err, "forward task", resourceTask, id.String())
	}
	t, err := s.getOwned(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, owner, req.RecipientID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if req.MarkNotDone {
		if err := history.RecordCompletion(t, task.StatusNotDone, now, true); err != nil {
			return nil, NewValidationError("status", err.Error())
		}
	}
	spawned, err := history.RecordForward(t, req.NewDate, strings.TrimSpace(req.Reason), req.RecipientID, now)
	if err != nil {
		return nil, NewValidationError("new_date", err.Error())
	}

	ledger, err := s.ledgerFor(ctx, owner, spawned.ScheduledDate)
	if err != nil {
		return nil, err
	}
	spawned.Order = ledger.NextOrder()

	// An outbound record must never reference a missing task.
	if err := s.repo.Create(ctx, spawned); err != nil {
		return nil, translate(err, "create forwarded task", resourceTask, spawned.ID.String())
	}
	if err := s.repo.Update(ctx, t); err != nil {
		if delErr := s.repo.Delete(ctx, spawned.ID); delErr != nil {
			logger.Error("Service: orphaned continuation after failed forward", delErr,
				zap.String("task_id", id.String()),
				zap.String("spawned_id", spawned.ID.String()))
		}
		return nil, translate(err, "forward task", resourceTask, id.String())
	}

	logger.Info("Service: task forwarded",
		zap.String("task_id", id.String()),
		zap.String("spawned_id", spawned.ID.String()),
		zap.String("destination", spawned.ScheduledDate))
	return &ForwardResult{Original: t, Spawned: spawned}, nil
}

func (s *TaskService) ForwardChain(ctx context.Context, id uuid.UUID) ([]*task.Task, error) {
	owner, err := session.OwnerFromContext(ctx)
	if err != nil {
		return nil, translate(err, "forward chain", resourceTask, id.String())
	}
	t, err := s.getOwned(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	lookup := func(ctx context.Context, id uuid.UUID) (*task.Task, error) {
		return s.getOwned(ctx, owner, id)
	}
	chain, err := history.Chain(ctx, lookup, t)
	if err != nil {
		return nil, translate(err, "forward chain", resourceTask, id.String())
	}
	return chain, nil
}

func (s *TaskService) Timeline(ctx context.Context, id uuid.UUID) ([]task.HistoryEntry, error) {
	t, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return t.Timeline(), nil
}

func (s *TaskService) RepairTask(ctx context.Context, id uuid.UUID) (*task.Task, history.RepairReport, error) {
	owner, err := session.OwnerFromContext(ctx)
	if err != nil {
		return nil, history.RepairReport{}, translate(err, "repair task", resourceTask, id.String())
	}
	t, err := s.getOwned(ctx, owner, id)
	if err != nil {
		return nil, history.RepairReport{}, err
	}
	fixed, report := history.Repair(t)
	if !report.Changed() {
		return t, report, nil
	}
	if err := s.repo.Update(ctx, fixed); err != nil {
		return nil, history.RepairReport{}, translate(err, "repair task", resourceTask, id.String())
	}
	return fixed, report, nil
}

// RepairAll runs the history repair over every tenant in pages of batchSize.
// Tasks changed concurrently are skipped and picked up by the next run.
func (s *TaskService) RepairAll(ctx context.Context, batchSize int) (RepairSummary, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	summary := RepairSummary{Reports: []history.RepairReport{}}

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		tasks, err := s.repo.ListPage(ctx, page, batchSize)
		if err != nil {
			return summary, fmt.Errorf("repair page %d: %w", page, err)
		}
		for _, t := range tasks {
			summary.Checked++
			fixed, report := history.Repair(t)
			if !report.Changed() {
				continue
			}
			if err := s.repo.Update(ctx, fixed); err != nil {
				logger.Warn("Service: repair skipped", zap.String("task_id", t.ID.String()), zap.Error(err))
				summary.Skipped++
				continue
			}
			summary.Repaired++
			summary.Reports = append(summary.Reports, report)
		}
		if len(tasks) < batchSize {
			break
		}
	}

	logger.Info("Service: history repair finished",
		zap.Int("checked", summary.Checked),
		zap.Int("repaired", summary.Repaired),
		zap.Int("skipped", summary.Skipped))
	return summary, nil
}

func (s *TaskService) AddSubItem(ctx context.Context, id uuid.UUID, text string) (*task.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, NewValidationError("text", "must not be empty")
	}
	return s.mutate(ctx, id, "add sub-item", func(t *task.Task) error {
		t.AddSubItem(text)
		return nil
	})
}

func (s *TaskService) ToggleSubItem(ctx context.Context, id, itemID uuid.UUID) (*task.Task, error) {
	return s.mutate(ctx, id, "toggle sub-item", func(t *task.Task) error {
		if _, ok := t.ToggleSubItem(itemID); !ok {
			return NewNotFound("sub-item", itemID.String())
		}
		return nil
	})
}

func (s *TaskService) RemoveSubItem(ctx context.Context, id, itemID uuid.UUID) (*task.Task, error) {
	return s.mutate(ctx, id, "remove sub-item", func(t *task.Task) error {
		if !t.RemoveSubItem(itemID) {
			return NewNotFound("sub-item", itemID.String())
		}
		return nil
	})
}

func (s *TaskService) mutate(ctx context.Context, id uuid.UUID, op string, fn func(*task.Task) error) (*task.Task, error) {
	t, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(t); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, translate(err, op, resourceTask, id.String())
	}
	return t, nil
}

func (s *TaskService) checkAssignee(ctx context.Context, owner uuid.UUID, id *uuid.UUID) error {
	if id == nil || s.directory == nil {
		return nil
	}
	ok, err := s.directory.Exists(ctx, owner, *id)
	if err != nil {
		return fmt.Errorf("checking assignee: %w", err)
	}
	if !ok {
		return NewValidationError("assignee_id", fmt.Sprintf("person %s is not in the directory", id))
	}
	return nil
}

func withoutTask(adjustments []ordering.Adjustment, id uuid.UUID) []ordering.Adjustment {
	out := make([]ordering.Adjustment, 0, len(adjustments))
	for _, adj := range adjustments {
		if adj.TaskID != id {
			out = append(out, adj)
		}
	}
	return out
}
