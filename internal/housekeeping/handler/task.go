package handler

import (
	"encoding/json"
	"net/http"

	"hms/internal/housekeeping/service"
	httputil "hms/pkg/http"
	"hms/pkg/logger"
	"hms/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type TaskHandler struct {
	service service.TaskService
	log     *logger.Logger
}

func NewTaskHandler(service service.TaskService, log *logger.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		log:     log,
	}
}

func (h *TaskHandler) Assign(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload struct {
		StaffID string              `json:"staff_id"`
		Tasks   []model.TaskRequest `json:"tasks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Assign", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	tasks, err := h.service.AssignTasks(r.Context(), payload.StaffID, payload.Tasks)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Assign", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, tasks); err != nil {
		h.log.Error("failed to write created response", "handler", "Assign", "operation", "WriteCreated", "error", err)
	}
}

func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var payload struct {
		Status         model.TaskStatus `json:"task_status"`
		CompletionDate string           `json:"completion_date,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateStatus", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	completionDate, err := httputil.ParseDate("completion", payload.CompletionDate)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.UpdateTaskStatus(r.Context(), id, payload.Status, completionDate); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *TaskHandler) ByStaff(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	staffID := ps.ByName("staffId")
	status := model.TaskStatus(r.URL.Query().Get("status"))

	tasks, err := h.service.ListTasksByStaff(r.Context(), staffID, status)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ByStaff", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, tasks); err != nil {
		h.log.Error("failed to write success response", "handler", "ByStaff", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Stats", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, stats); err != nil {
		h.log.Error("failed to write success response", "handler", "Stats", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TaskHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/housekeeping/tasks", h.Assign)
	router.GET("/api/v1/housekeeping/tasks/stats", h.Stats)
	router.PATCH("/api/v1/housekeeping/tasks/id/:id/status", h.UpdateStatus)
	router.GET("/api/v1/housekeeping/tasks/staff/:staffId", h.ByStaff)
}
