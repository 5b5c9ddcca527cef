package handlers

import (
	"net/http"
	"strconv"
	"time"

	"organizese/internal/logger"
	"organizese/internal/models/task"
	"organizese/internal/schedule"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ScheduleHandler struct {
	TaskService TaskService
}

func NewScheduleHandler(taskService TaskService) ScheduleHandler {
	return ScheduleHandler{TaskService: taskService}
}

func (h *ScheduleHandler) Routes(r chi.Router) {
	r.Get("/dates", h.PreviewDates)
	r.Get("/next-order", h.NextOrder)
	r.Post("/normalize", h.Normalize)
}

// PreviewDates shows which dates a routine would occupy without creating anything.
func (h *ScheduleHandler) PreviewDates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.Request(r, "HTTP_IN:")

	query := r.URL.Query()
	from, err := task.ParseDate(query.Get("start"))
	if err != nil {
		responseWithError(w, http.StatusBadRequest, "start must be yyyy-MM-dd")
		return
	}

	var until *time.Time
	if raw := query.Get("end"); raw != "" {
		end, err := task.ParseDate(raw)
		if err != nil {
			responseWithError(w, http.StatusBadRequest, "end must be yyyy-MM-dd")
			return
		}
		until = &end
	}

	cycle, ok := schedule.ParseCycle(query.Get("cycle"))
	if !ok {
		logger.Warn("HTTP: unknown cycle, previewing the start date only",
			zap.String("cycle", query.Get("cycle")))
	}

	weekends := false
	if raw := query.Get("weekends"); raw != "" {
		weekends, err = strconv.ParseBool(raw)
		if err != nil {
			responseWithError(w, http.StatusBadRequest, "weekends must be a boolean")
			return
		}
	}

	dates := schedule.GenerateDates(from, until, cycle, weekends)

	logger.Info("HTTP_OUT: dates generated",
		zap.Int("count", len(dates)),
		zap.Duration("ms", time.Since(start)))

	responseWithFields(w, http.StatusOK,
		toPayload("cycle", cycle),
		toPayload("known_cycle", ok),
		toPayload("dates", dates),
	)
}

func (h *ScheduleHandler) NextOrder(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	date := r.URL.Query().Get("date")
	next, err := h.TaskService.NextOrder(r.Context(), date)
	if err != nil {
		handleServiceError(w, r, err, "next_order")
		return
	}
	responseWithFields(w, http.StatusOK,
		toPayload("date", date),
		toPayload("next_order", next),
	)
}

func (h *ScheduleHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	plan, err := h.TaskService.NormalizeDate(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		handleServiceError(w, r, err, "normalize")
		return
	}
	responseWithJSON(w, http.StatusOK, plan)
}
