package handlers

import (
	"net/http"
	"time"

	"organizese/internal/handlers/dto"
	"organizese/internal/logger"
	"organizese/internal/models/task"
	"organizese/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

// Routes mounts the task endpoints under the caller's prefix.
func (h *TaskHandler) Routes(r chi.Router) {
	r.Get("/", h.ListTasks)
	r.Post("/", h.PostTask)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetTaskByID)
		r.Put("/", h.UpdateTaskByID)
		r.Delete("/", h.DeleteTaskByID)

		r.Post("/move", h.MoveTask)
		r.Post("/status", h.SetStatus)
		r.Post("/forward", h.ForwardTask)
		r.Post("/repair", h.RepairTask)
		r.Get("/chain", h.ForwardChain)
		r.Get("/history", h.Timeline)

		r.Post("/items", h.AddSubItem)
		r.Patch("/items/{itemID}", h.ToggleSubItem)
		r.Delete("/items/{itemID}", h.RemoveSubItem)
	})
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP: health check")

	if err := h.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: health check failed", err)
		responseWithFields(w, http.StatusServiceUnavailable, toPayload("status", "unavailable"))
		return
	}
	responseWithFields(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("today", h.TaskService.Today()),
	)
}

func (h *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.Request(r, "HTTP_IN:")

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	result, err := h.TaskService.CreateTask(r.Context(), request.Template())
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: tasks created",
		zap.Int("count", len(result.Tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	today := h.TaskService.Today()
	responseWithFields(w, http.StatusCreated,
		toPayload("tasks", dto.FromTaskList(result.Tasks, today)),
		toPayload("plan", result.Plan),
	)
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.Request(r, "HTTP_IN:")

	date := r.URL.Query().Get("date")
	tasks, err := h.TaskService.ListByDate(r.Context(), date)
	if err != nil {
		handleServiceError(w, r, err, "list_tasks")
		return
	}

	logger.Info("HTTP_OUT: tasks listed",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTaskList(tasks, h.TaskService.Today()))
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	t, err := h.TaskService.GetTask(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_task")
		return
	}
	responseWithJSON(w, http.StatusOK, dto.FromTask(t, h.TaskService.Today()))
}

func (h *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.Request(r, "HTTP_IN:")

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	if request.Empty() {
		responseWithError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	t, err := h.TaskService.UpdateTask(r.Context(), id, request.Position, request.Options()...)
	if err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: task updated",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTask(t, h.TaskService.Today()))
}

func (h *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	plan, err := h.TaskService.DeleteTask(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}
	responseWithFields(w, http.StatusOK,
		toPayload("deleted", id),
		toPayload("plan", plan),
	)
}

func (h *TaskHandler) MoveTask(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var request dto.MoveRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	if request.Position < 1 {
		responseWithError(w, http.StatusBadRequest, "position must be at least 1")
		return
	}

	plan, err := h.TaskService.MoveTask(r.Context(), id, request.Position)
	if err != nil {
		handleServiceError(w, r, err, "move_task")
		return
	}
	responseWithJSON(w, http.StatusOK, plan)
}

func (h *TaskHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var request dto.StatusRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	t, err := h.TaskService.SetStatus(r.Context(), id, task.Status(request.Status), request.WasForwarded)
	if err != nil {
		handleServiceError(w, r, err, "set_status")
		return
	}
	responseWithJSON(w, http.StatusOK, dto.FromTask(t, h.TaskService.Today()))
}

func (h *TaskHandler) ForwardTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.Request(r, "HTTP_IN:")

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var request dto.ForwardRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	result, err := h.TaskService.ForwardTask(r.Context(), id, service.ForwardRequest{
		NewDate:     request.NewDate,
		Reason:      request.Reason,
		RecipientID: request.RecipientID,
		MarkNotDone: request.MarkNotDone,
	})
	if err != nil {
		handleServiceError(w, r, err, "forward_task")
		return
	}

	logger.Info("HTTP_OUT: task forwarded",
		zap.String("task_id", id.String()),
		zap.String("spawned_id", result.Spawned.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	today := h.TaskService.Today()
	responseWithFields(w, http.StatusCreated,
		toPayload("original", dto.FromTask(result.Original, today)),
		toPayload("spawned", dto.FromTask(result.Spawned, today)),
	)
}

func (h *TaskHandler) ForwardChain(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	chain, err := h.TaskService.ForwardChain(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "forward_chain")
		return
	}
	responseWithJSON(w, http.StatusOK, dto.FromTaskList(chain, h.TaskService.Today()))
}

func (h *TaskHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	entries, err := h.TaskService.Timeline(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "timeline")
		return
	}
	responseWithJSON(w, http.StatusOK, dto.FromTimeline(entries))
}

func (h *TaskHandler) RepairTask(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	t, report, err := h.TaskService.RepairTask(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "repair_task")
		return
	}
	responseWithFields(w, http.StatusOK,
		toPayload("task", dto.FromTask(t, h.TaskService.Today())),
		toPayload("report", report),
	)
}

func (h *TaskHandler) AddSubItem(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var request dto.SubItemTextRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	t, err := h.TaskService.AddSubItem(r.Context(), id, request.Text)
	if err != nil {
		handleServiceError(w, r, err, "add_sub_item")
		return
	}
	responseWithJSON(w, http.StatusCreated, dto.FromTask(t, h.TaskService.Today()))
}

func (h *TaskHandler) ToggleSubItem(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := uuidParam(w, r, "itemID")
	if !ok {
		return
	}

	t, err := h.TaskService.ToggleSubItem(r.Context(), id, itemID)
	if err != nil {
		handleServiceError(w, r, err, "toggle_sub_item")
		return
	}
	responseWithJSON(w, http.StatusOK, dto.FromTask(t, h.TaskService.Today()))
}

func (h *TaskHandler) RemoveSubItem(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := uuidParam(w, r, "itemID")
	if !ok {
		return
	}

	t, err := h.TaskService.RemoveSubItem(r.Context(), id, itemID)
	if err != nil {
		handleServiceError(w, r, err, "remove_sub_item")
		return
	}
	responseWithJSON(w, http.StatusOK, dto.FromTask(t, h.TaskService.Today()))
}
