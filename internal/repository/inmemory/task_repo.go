package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"organizese/internal/logger"
	"organizese/internal/models/task"
	"organizese/internal/ordering"
	repo "organizese/internal/repository"

	"github.com/google/uuid"
)

// TaskStorage keeps tasks in memory. Callers always get copies, so a task
// read and later updated goes through the same version check as postgres.
type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: in-memory storage is healthy")
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.insert(taskToCreate)
	return nil
}

// CreateBatch stores all tasks or none.
func (s *TaskStorage) CreateBatch(ctx context.Context, tasks []*task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, t := range tasks {
		if _, exists := s.storage[t.ID]; exists {
			return repo.ErrVersionConflict
		}
	}
	for _, t := range tasks {
		s.insert(t)
	}
	return nil
}

func (s *TaskStorage) insert(t *task.Task) {
	t.CreatedAt = time.Now()
	t.UpdatedAt = nil
	t.Version = 1
	s.storage[t.ID] = t.Clone()
	s.ids = append(s.ids, t.ID)
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[taskToUpdate.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if existing.Version != taskToUpdate.Version {
		return repo.ErrVersionConflict
	}

	now := time.Now()
	taskToUpdate.UpdatedAt = &now
	taskToUpdate.Version++
	taskToUpdate.CreatedAt = existing.CreatedAt
	s.storage[taskToUpdate.ID] = taskToUpdate.Clone()
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet.Clone(), nil
}

// ListByDate returns one owner's tasks for a day by order; equal orders keep
// insertion sequence.
func (s *TaskStorage) ListByDate(ctx context.Context, ownerID uuid.UUID, date string) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.ids {
		t := s.storage[id]
		if t.OwnerID == ownerID && t.ScheduledDate == date {
			res = append(res, t.Clone())
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Order < res[j].Order
	})
	return res, nil
}

// ApplyOrder writes new positions. Order is not version guarded; unknown ids
// are skipped the same way an UPDATE matching no row is.
func (s *TaskStorage) ApplyOrder(ctx context.Context, adjustments []ordering.Adjustment) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := time.Now()
	for _, adj := range adjustments {
		t, ok := s.storage[adj.TaskID]
		if !ok {
			continue
		}
		t.Order = adj.NewOrder
		t.UpdatedAt = &now
	}
	return nil
}

func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

// ListPage walks every tenant's tasks in creation order; page starts at 1.
func (s *TaskStorage) ListPage(ctx context.Context, page, limit int) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	for i := offset; i < len(s.ids) && len(res) < limit; i++ {
		res = append(res, s.storage[s.ids[i]].Clone())
	}
	return res, nil
}
