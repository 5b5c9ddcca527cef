package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"organizese/internal/logger"
	"organizese/internal/models/task"
	"organizese/internal/ordering"
	repo "organizese/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const taskColumns = `id,
				owner_id,
				title,
				description,
				type,
				priority,
				time_investment,
				custom_minutes,
				category,
				to_char(scheduled_date, 'YYYY-MM-DD'),
				assignee_id,
				sub_items,
				position,
				is_routine,
				is_forwarded,
				is_concluded,
				is_processed,
				status,
				forward_count,
				completion_history,
				forward_history,
				origin_task_id,
				created_at,
				updated_at,
				version`

func scanTask(row scanner) (*task.Task, error) {
	t := &task.Task{}
	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Title,
		&t.Description,
		&t.Type,
		&t.Priority,
		&t.TimeInvestment,
		&t.CustomMinutes,
		&t.Category,
		&t.ScheduledDate,
		&t.AssigneeID,
		&t.SubItems,
		&t.Order,
		&t.IsRoutine,
		&t.IsForwarded,
		&t.IsConcluded,
		&t.IsProcessed,
		&t.Status,
		&t.ForwardCount,
		&t.CompletionHistory,
		&t.ForwardHistory,
		&t.OriginTaskID,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.Version,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()
	defer warnIfSlow("create_task", start, 50*time.Millisecond)

	if err := insertTask(ctx, s.pool, taskToCreate); err != nil {
		logger.Error("Repository: failed to insert task", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

// CreateBatch inserts a routine expansion in one transaction.
func (s *Storage) CreateBatch(ctx context.Context, tasks []*task.Task) error {
	start := time.Now()
	defer warnIfSlow("create_batch", start, 50*time.Millisecond+10*time.Millisecond*time.Duration(len(tasks)))

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, t := range tasks {
			if err := insertTask(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Repository: failed to insert task batch", err, zap.Int("size", len(tasks)))
		return fmt.Errorf("inserting task batch: %w", err)
	}
	return nil
}

func insertTask(ctx context.Context, q querier, t *task.Task) error {
	query := `INSERT INTO tasks
				(id, owner_id, title, description, type, priority, time_investment, custom_minutes,
				 category, scheduled_date, assignee_id, sub_items, position, is_routine, is_forwarded,
				 is_concluded, is_processed, status, forward_count, completion_history, forward_history,
				 origin_task_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::date, $11, $12, $13, $14, $15,
				        $16, $17, $18, $19, $20, $21, $22)
				RETURNING created_at, version`

	return q.QueryRow(ctx, query,
		t.ID,
		t.OwnerID,
		t.Title,
		t.Description,
		t.Type,
		t.Priority,
		t.TimeInvestment,
		t.CustomMinutes,
		t.Category,
		t.ScheduledDate,
		t.AssigneeID,
		nonNil(t.SubItems),
		t.Order,
		t.IsRoutine,
		t.IsForwarded,
		t.IsConcluded,
		t.IsProcessed,
		t.Status,
		t.ForwardCount,
		nonNil(t.CompletionHistory),
		nonNil(t.ForwardHistory),
		t.OriginTaskID,
	).Scan(&t.CreatedAt, &t.Version)
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()
	defer warnIfSlow("update_task", start, 100*time.Millisecond)

	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				type = $3,
				priority = $4,
				time_investment = $5,
				custom_minutes = $6,
				category = $7,
				scheduled_date = $8::date,
				assignee_id = $9,
				sub_items = $10,
				position = $11,
				is_routine = $12,
				is_forwarded = $13,
				is_concluded = $14,
				is_processed = $15,
				status = $16,
				forward_count = $17,
				completion_history = $18,
				forward_history = $19,
				origin_task_id = $20,
				version = version + 1,
				updated_at = NOW()
			WHERE id = $21 AND version = $22
			RETURNING updated_at, version`

	err := s.pool.QueryRow(ctx, query,
		taskToUpdate.Title,
		taskToUpdate.Description,
		taskToUpdate.Type,
		taskToUpdate.Priority,
		taskToUpdate.TimeInvestment,
		taskToUpdate.CustomMinutes,
		taskToUpdate.Category,
		taskToUpdate.ScheduledDate,
		taskToUpdate.AssigneeID,
		nonNil(taskToUpdate.SubItems),
		taskToUpdate.Order,
		taskToUpdate.IsRoutine,
		taskToUpdate.IsForwarded,
		taskToUpdate.IsConcluded,
		taskToUpdate.IsProcessed,
		taskToUpdate.Status,
		taskToUpdate.ForwardCount,
		nonNil(taskToUpdate.CompletionHistory),
		nonNil(taskToUpdate.ForwardHistory),
		taskToUpdate.OriginTaskID,
		taskToUpdate.ID,
		taskToUpdate.Version,
	).Scan(&taskToUpdate.UpdatedAt, &taskToUpdate.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.missingOrConflict(ctx, taskToUpdate.ID, taskToUpdate.Version)
		}
		logger.Error("Repository: failed to update task", err)
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

func (s *Storage) missingOrConflict(ctx context.Context, id uuid.UUID, version int) error {
	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("checking task existence: %w", err)
	}
	if !exists {
		return repo.ErrNotFound
	}
	logger.Warn("Repository: version conflict on update",
		zap.String("task_id", id.String()),
		zap.Int("expected_version", version))
	return repo.ErrVersionConflict
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("get_task", start, 100*time.Millisecond)

	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE id = $1`

	t, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to get task", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

func (s *Storage) ListByDate(ctx context.Context, ownerID uuid.UUID, date string) ([]*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("list_by_date", start, 100*time.Millisecond)

	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE owner_id = $1 AND scheduled_date = $2::date
				ORDER BY position, created_at`

	rows, err := s.pool.Query(ctx, query, ownerID, date)
	if err != nil {
		logger.Error("Repository: failed to list tasks", err, zap.String("date", date))
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return collectTasks(rows)
}

func (s *Storage) ListPage(ctx context.Context, page, limit int) ([]*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("list_page", start, 50*time.Millisecond+10*time.Millisecond*time.Duration(limit))

	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + taskColumns + `
				FROM tasks
				ORDER BY created_at, id
				LIMIT $1 OFFSET $2`

	rows, err := s.pool.Query(ctx, query, limit, offset)
	if err != nil {
		logger.Error("Repository: failed to list tasks", err)
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return collectTasks(rows)
}

func collectTasks(rows pgx.Rows) ([]*task.Task, error) {
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: row iteration failed", err)
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return tasks, nil
}

// ApplyOrder writes a ledger plan atomically.
func (s *Storage) ApplyOrder(ctx context.Context, adjustments []ordering.Adjustment) error {
	if len(adjustments) == 0 {
		return nil
	}
	start := time.Now()
	defer warnIfSlow("apply_order", start, 100*time.Millisecond)

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, adj := range adjustments {
			batch.Queue(`UPDATE tasks SET position = $1, updated_at = NOW() WHERE id = $2`, adj.NewOrder, adj.TaskID)
		}
		br := tx.SendBatch(ctx, batch)
		for range adjustments {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return err
			}
		}
		return br.Close()
	})
	if err != nil {
		logger.Error("Repository: failed to apply order", err, zap.Int("adjustments", len(adjustments)))
		return fmt.Errorf("applying order: %w", err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	defer warnIfSlow("delete_task", start, 100*time.Millisecond)

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: failed to delete task", err)
		return fmt.Errorf("deleting task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// nonNil keeps NOT NULL jsonb columns from receiving a JSON null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
