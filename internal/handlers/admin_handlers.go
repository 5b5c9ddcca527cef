package handlers

import (
	"net/http"
	"strconv"
	"time"

	"organizese/internal/logger"
	"organizese/internal/session"

	"go.uber.org/zap"
)

type AdminHandler struct {
	TaskService TaskService
	BatchSize   int
}

func NewAdminHandler(taskService TaskService, batchSize int) AdminHandler {
	return AdminHandler{TaskService: taskService, BatchSize: batchSize}
}

// RepairHistories runs the history repair over every tenant. Admins only.
func (h *AdminHandler) RepairHistories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.Request(r, "HTTP_IN:")

	state, err := session.FromContext(r.Context())
	if err != nil {
		responseWithError(w, http.StatusUnauthorized, "session required")
		return
	}
	if !state.Admin {
		logger.Warn("HTTP: repair requested by non-admin", zap.String("user_id", state.UserID.String()))
		responseWithError(w, http.StatusForbidden, "admin only")
		return
	}

	batch := h.BatchSize
	if raw := r.URL.Query().Get("batch"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			responseWithError(w, http.StatusBadRequest, "batch must be a positive integer")
			return
		}
		batch = n
	}

	summary, err := h.TaskService.RepairAll(r.Context(), batch)
	if err != nil {
		handleServiceError(w, r, err, "repair_all")
		return
	}

	logger.Info("HTTP_OUT: repair finished",
		zap.Int("repaired", summary.Repaired),
		zap.Duration("ms", time.Since(start)))
	responseWithJSON(w, http.StatusOK, summary)
}
