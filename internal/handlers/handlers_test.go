package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"organizese/internal/handlers"
	"organizese/internal/history"
	"organizese/internal/models/person"
	"organizese/internal/models/task"
	"organizese/internal/ordering"
	"organizese/internal/service"
	"organizese/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const today = "2024-03-04"

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskService) Today() string {
	return today
}

func (m *MockTaskService) CreateTask(ctx context.Context, tpl task.Template) (*service.CreateResult, error) {
	args := m.Called(ctx, tpl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CreateResult), args.Error(1)
}

func (m *MockTaskService) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) ListByDate(ctx context.Context, date string) ([]*task.Task, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, id uuid.UUID, position *int, options ...task.TaskOption) (*task.Task, error) {
	args := m.Called(ctx, id, position, len(options))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id uuid.UUID) (ordering.Plan, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ordering.Plan), args.Error(1)
}

func (m *MockTaskService) MoveTask(ctx context.Context, id uuid.UUID, position int) (ordering.Plan, error) {
	args := m.Called(ctx, id, position)
	return args.Get(0).(ordering.Plan), args.Error(1)
}

func (m *MockTaskService) NextOrder(ctx context.Context, date string) (int, error) {
	args := m.Called(ctx, date)
	return args.Int(0), args.Error(1)
}

func (m *MockTaskService) NormalizeDate(ctx context.Context, date string) (ordering.Plan, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(ordering.Plan), args.Error(1)
}

func (m *MockTaskService) SetStatus(ctx context.Context, id uuid.UUID, status task.Status, wasForwarded bool) (*task.Task, error) {
	args := m.Called(ctx, id, status, wasForwarded)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) ForwardTask(ctx context.Context, id uuid.UUID, req service.ForwardRequest) (*service.ForwardResult, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ForwardResult), args.Error(1)
}

func (m *MockTaskService) ForwardChain(ctx context.Context, id uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskService) Timeline(ctx context.Context, id uuid.UUID) ([]task.HistoryEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.HistoryEntry), args.Error(1)
}

func (m *MockTaskService) RepairTask(ctx context.Context, id uuid.UUID) (*task.Task, history.RepairReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, history.RepairReport{}, args.Error(2)
	}
	return args.Get(0).(*task.Task), args.Get(1).(history.RepairReport), args.Error(2)
}

func (m *MockTaskService) RepairAll(ctx context.Context, batchSize int) (service.RepairSummary, error) {
	args := m.Called(ctx, batchSize)
	return args.Get(0).(service.RepairSummary), args.Error(1)
}

func (m *MockTaskService) AddSubItem(ctx context.Context, id uuid.UUID, text string) (*task.Task, error) {
	args := m.Called(ctx, id, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) ToggleSubItem(ctx context.Context, id, itemID uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) RemoveSubItem(ctx context.Context, id, itemID uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

var _ handlers.TaskService = (*MockTaskService)(nil)

type MockPeopleService struct {
	mock.Mock
}

func (m *MockPeopleService) CreatePerson(ctx context.Context, in service.PersonInput) (*person.Person, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*person.Person), args.Error(1)
}

func (m *MockPeopleService) GetPerson(ctx context.Context, id uuid.UUID) (*person.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*person.Person), args.Error(1)
}

func (m *MockPeopleService) ListPeople(ctx context.Context) ([]*person.Person, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*person.Person), args.Error(1)
}

func (m *MockPeopleService) SetMemberStatus(ctx context.Context, id uuid.UUID, status person.MemberStatus) (*person.Person, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*person.Person), args.Error(1)
}

func (m *MockPeopleService) SetMemberSkills(ctx context.Context, id uuid.UUID, skills []uuid.UUID) (*person.Person, error) {
	args := m.Called(ctx, id, skills)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*person.Person), args.Error(1)
}

func (m *MockPeopleService) CreateSkill(ctx context.Context, name string) (*person.Skill, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*person.Skill), args.Error(1)
}

func (m *MockPeopleService) ListSkills(ctx context.Context) ([]*person.Skill, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*person.Skill), args.Error(1)
}

var _ handlers.PeopleService = (*MockPeopleService)(nil)

func taskRouter(m *MockTaskService) http.Handler {
	h := handlers.NewTaskHandler(m)
	sh := handlers.NewScheduleHandler(m)
	r := chi.NewRouter()
	r.Route("/tasks", h.Routes)
	r.Route("/schedule", sh.Routes)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestTaskHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockTaskService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success - healthy",
			setupMock: func(m *MockTaskService) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"ok"`,
		},
		{
			name: "error - unhealthy",
			setupMock: func(m *MockTaskService) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("service unavailable"))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"status":"unavailable"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			handler := handlers.NewTaskHandler(mockService)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			handler.HealthCheck(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_PostTask(t *testing.T) {
	taskID := uuid.New()

	tests := []struct {
		name           string
		requestBody    string
		contentType    string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name:        "success - create task",
			requestBody: `{"title": "Review budget", "priority": "extreme", "scheduled_date": "2024-03-05", "position": 1}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, mock.MatchedBy(func(tpl task.Template) bool {
					return tpl.Title == "Review budget" && tpl.Priority == task.PriorityExtreme &&
						tpl.Position != nil && *tpl.Position == 1
				})).Return(&service.CreateResult{
					Tasks: []*task.Task{{ID: taskID, Title: "Review budget", ScheduledDate: "2024-03-05", Status: task.StatusPending}},
					Plan:  ordering.Plan{Date: "2024-03-05", Adjustments: []ordering.Adjustment{}},
				}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "success - routine template",
			requestBody: `{"title": "Standup", "is_routine": true, "routine": {"cycle": "weekly", "start_date": "2024-03-04"}}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, mock.MatchedBy(func(tpl task.Template) bool {
					return tpl.IsRoutine && tpl.Routine != nil && tpl.Routine.Cycle == "weekly"
				})).Return(&service.CreateResult{Tasks: []*task.Task{{ID: taskID, Title: "Standup"}}}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "error - invalid content type",
			requestBody:    `{}`,
			contentType:    "text/plain",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:           "error - invalid JSON",
			requestBody:    `{invalid json}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - unknown field",
			requestBody:    `{"title": "x", "due_time": "tomorrow"}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "error - validation",
			requestBody: `{"title": ""}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, mock.Anything).
					Return(nil, service.NewValidationError("title", "must not be empty"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "error - missing session",
			requestBody: `{"title": "x"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, mock.Anything).
					Return(nil, &service.BusinessError{Code: service.CodeUnauthorized, Message: "session required"})
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:        "error - service error",
			requestBody: `{"title": "x"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			handler := handlers.NewTaskHandler(mockService)

			req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString(tt.requestBody))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()

			handler.PostTask(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				body := decodeBody(t, w)
				tasks, ok := body["tasks"].([]any)
				require.True(t, ok)
				require.Len(t, tasks, 1)
				assert.Equal(t, taskID.String(), tasks[0].(map[string]any)["id"])
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_GetTaskByID(t *testing.T) {
	taskID := uuid.New()

	tests := []struct {
		name           string
		taskID         string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name:   "success - get task",
			taskID: taskID.String(),
			setupMock: func(m *MockTaskService) {
				m.On("GetTask", mock.Anything, taskID).Return(&task.Task{
					ID:            taskID,
					Title:         "Test Task",
					Status:        task.StatusPending,
					ScheduledDate: "2024-03-01",
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "error - invalid UUID",
			taskID:         "invalid-uuid",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - nil UUID",
			taskID:         uuid.Nil.String(),
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "error - task not found",
			taskID: taskID.String(),
			setupMock: func(m *MockTaskService) {
				m.On("GetTask", mock.Anything, taskID).Return(nil, service.NewNotFound("task", taskID.String()))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			w := doJSON(t, taskRouter(mockService), http.MethodGet, "/tasks/"+tt.taskID, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				body := decodeBody(t, w)
				assert.Equal(t, "Test Task", body["title"])
				assert.Equal(t, true, body["is_overdue"])
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_UpdateTaskByID(t *testing.T) {
	taskID := uuid.New()

	t.Run("success - options and position", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("UpdateTask", mock.Anything, taskID, mock.MatchedBy(func(p *int) bool {
			return p != nil && *p == 2
		}), 2).Return(&task.Task{ID: taskID, Title: "New", Version: 2}, nil)

		w := doJSON(t, taskRouter(mockService), http.MethodPut, "/tasks/"+taskID.String(),
			`{"title": "New", "priority": "priority", "position": 2}`)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("error - empty update", func(t *testing.T) {
		mockService := new(MockTaskService)
		w := doJSON(t, taskRouter(mockService), http.MethodPut, "/tasks/"+taskID.String(), `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("error - version conflict", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("UpdateTask", mock.Anything, taskID, (*int)(nil), 1).
			Return(nil, service.NewVersionConflict("task", taskID.String()))

		w := doJSON(t, taskRouter(mockService), http.MethodPut, "/tasks/"+taskID.String(), `{"title": "New"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, service.CodeVersionConflict, decodeBody(t, w)["error"])
	})
}

func TestTaskHandler_MoveAndDelete(t *testing.T) {
	taskID := uuid.New()
	plan := ordering.Plan{Date: "2024-03-05", Adjustments: []ordering.Adjustment{{TaskID: taskID, OldOrder: 1, NewOrder: 3}}}

	mockService := new(MockTaskService)
	mockService.On("MoveTask", mock.Anything, taskID, 3).Return(plan, nil)
	mockService.On("DeleteTask", mock.Anything, taskID).Return(ordering.Plan{Adjustments: []ordering.Adjustment{}}, nil)
	router := taskRouter(mockService)

	w := doJSON(t, router, http.MethodPost, "/tasks/"+taskID.String()+"/move", `{"position": 3}`)
	require.Equal(t, http.StatusOK, w.Code)
	var got ordering.Plan
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, plan, got)

	w = doJSON(t, router, http.MethodPost, "/tasks/"+taskID.String()+"/move", `{"position": 0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/tasks/"+taskID.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)

	mockService.AssertExpectations(t)
}

func TestTaskHandler_StatusAndForward(t *testing.T) {
	taskID := uuid.New()
	spawnedID := uuid.New()

	mockService := new(MockTaskService)
	mockService.On("SetStatus", mock.Anything, taskID, task.StatusCompleted, false).
		Return(&task.Task{ID: taskID, Status: task.StatusCompleted, IsConcluded: true}, nil)
	mockService.On("ForwardTask", mock.Anything, taskID, service.ForwardRequest{NewDate: "2024-03-06", Reason: "waiting", MarkNotDone: true}).
		Return(&service.ForwardResult{
			Original: &task.Task{ID: taskID, ForwardCount: 1},
			Spawned:  &task.Task{ID: spawnedID, ScheduledDate: "2024-03-06"},
		}, nil)
	router := taskRouter(mockService)

	w := doJSON(t, router, http.MethodPost, "/tasks/"+taskID.String()+"/status", `{"status": "completed"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["is_concluded"])

	w = doJSON(t, router, http.MethodPost, "/tasks/"+taskID.String()+"/forward",
		`{"new_date": "2024-03-06", "reason": "waiting", "mark_not_done": true}`)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, spawnedID.String(), body["spawned"].(map[string]any)["id"])

	mockService.AssertExpectations(t)
}

func TestTaskHandler_Timeline(t *testing.T) {
	taskID := uuid.New()
	mockService := new(MockTaskService)
	mockService.On("Timeline", mock.Anything, taskID).Return([]task.HistoryEntry{
		task.CompletionRecord{Date: "2024-03-05", Status: task.StatusNotDone},
		task.ForwardRecord{OriginDate: "2024-03-05", DestinationDate: "2024-03-06"},
	}, nil)

	w := doJSON(t, taskRouter(mockService), http.MethodGet, "/tasks/"+taskID.String()+"/history", "")

	require.Equal(t, http.StatusOK, w.Code)
	var entries []map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&entries))
	require.Len(t, entries, 2)
	assert.Equal(t, task.KindCompletion, entries[0]["kind"])
	assert.Equal(t, task.KindForward, entries[1]["kind"])
}

func TestTaskHandler_SubItems(t *testing.T) {
	taskID, itemID := uuid.New(), uuid.New()
	mockService := new(MockTaskService)
	mockService.On("AddSubItem", mock.Anything, taskID, "buy milk").Return(&task.Task{ID: taskID}, nil)
	mockService.On("ToggleSubItem", mock.Anything, taskID, itemID).Return(nil, service.NewNotFound("sub-item", itemID.String()))
	mockService.On("RemoveSubItem", mock.Anything, taskID, itemID).Return(&task.Task{ID: taskID}, nil)
	router := taskRouter(mockService)

	w := doJSON(t, router, http.MethodPost, "/tasks/"+taskID.String()+"/items", `{"text": "buy milk"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/tasks/"+taskID.String()+"/items/"+itemID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/tasks/"+taskID.String()+"/items/"+itemID.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)

	mockService.AssertExpectations(t)
}

func TestScheduleHandler_PreviewDates(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedDates  []any
	}{
		{
			name:           "weekly without weekends",
			query:          "?start=2024-03-04&end=2024-03-25&cycle=weekly",
			expectedStatus: http.StatusOK,
			expectedDates:  []any{"2024-03-04", "2024-03-11", "2024-03-18", "2024-03-25"},
		},
		{
			name:           "unknown cycle yields the start date",
			query:          "?start=2024-03-04&cycle=fortnightly",
			expectedStatus: http.StatusOK,
			expectedDates:  []any{"2024-03-04"},
		},
		{
			name:           "bad start",
			query:          "?start=March&cycle=daily",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad weekends flag",
			query:          "?start=2024-03-04&cycle=daily&weekends=maybe",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, taskRouter(new(MockTaskService)), http.MethodGet, "/schedule/dates"+tt.query, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedDates != nil {
				assert.Equal(t, tt.expectedDates, decodeBody(t, w)["dates"])
			}
		})
	}
}

func TestScheduleHandler_NextOrderAndNormalize(t *testing.T) {
	mockService := new(MockTaskService)
	mockService.On("NextOrder", mock.Anything, "2024-03-05").Return(4, nil)
	mockService.On("NextOrder", mock.Anything, "bad").Return(0, service.NewValidationError("date", "expected yyyy-MM-dd"))
	mockService.On("NormalizeDate", mock.Anything, "2024-03-05").Return(ordering.Plan{Date: "2024-03-05", Adjustments: []ordering.Adjustment{}}, nil)
	router := taskRouter(mockService)

	w := doJSON(t, router, http.MethodGet, "/schedule/next-order?date=2024-03-05", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), decodeBody(t, w)["next_order"])

	w = doJSON(t, router, http.MethodGet, "/schedule/next-order?date=bad", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/schedule/normalize?date=2024-03-05", "")
	assert.Equal(t, http.StatusOK, w.Code)

	mockService.AssertExpectations(t)
}

func TestAdminHandler_RepairHistories(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		admin          bool
		withSession    bool
		query          string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name:        "admin runs repair",
			admin:       true,
			withSession: true,
			setupMock: func(m *MockTaskService) {
				m.On("RepairAll", mock.Anything, 50).Return(service.RepairSummary{Checked: 3, Repaired: 1}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "custom batch",
			admin:       true,
			withSession: true,
			query:       "?batch=5",
			setupMock: func(m *MockTaskService) {
				m.On("RepairAll", mock.Anything, 5).Return(service.RepairSummary{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non-admin forbidden",
			withSession:    true,
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "no session",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)
			handler := handlers.NewAdminHandler(mockService, 50)

			req := httptest.NewRequest(http.MethodPost, "/admin/repair"+tt.query, nil)
			if tt.withSession {
				state, err := session.New(userID, tt.admin, nil)
				require.NoError(t, err)
				req = req.WithContext(session.WithState(req.Context(), state))
			}
			w := httptest.NewRecorder()
			handler.RepairHistories(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestPeopleHandler(t *testing.T) {
	personID := uuid.New()
	mockService := new(MockPeopleService)
	mockService.On("CreatePerson", mock.Anything, service.PersonInput{Name: "Ana", IsTeamMember: true}).
		Return(&person.Person{ID: personID, Name: "Ana", IsTeamMember: true, Status: person.StatusActive}, nil)
	mockService.On("SetMemberStatus", mock.Anything, personID, person.StatusInactive).
		Return(&person.Person{ID: personID, Status: person.StatusInactive}, nil)
	mockService.On("GetPerson", mock.Anything, personID).Return(nil, service.NewNotFound("person", personID.String()))
	mockService.On("ListSkills", mock.Anything).Return([]*person.Skill{{Name: "Go"}}, nil)

	h := handlers.NewPeopleHandler(mockService)
	router := chi.NewRouter()
	h.Routes(router)

	w := doJSON(t, router, http.MethodPost, "/people", `{"name": "Ana", "is_team_member": true}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "ativo", decodeBody(t, w)["status"])

	w = doJSON(t, router, http.MethodPut, "/people/"+personID.String()+"/status", `{"status": "inativo"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/people/"+personID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/skills", "")
	assert.Equal(t, http.StatusOK, w.Code)

	mockService.AssertExpectations(t)
}
