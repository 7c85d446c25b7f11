package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"hms/internal/inventory/service"
	apperrors "hms/pkg/errors"
	httputil "hms/pkg/http"
	"hms/pkg/logger"
	"hms/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type RoomHandler struct {
	service service.InventoryService
	log     *logger.Logger
}

func NewRoomHandler(service service.InventoryService, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		log:     log,
	}
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var room model.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.CreateRoom(r.Context(), &room); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, room); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *RoomHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var (
		rooms []*model.Room
		err   error
	)
	if r.URL.Query().Get("available") == "true" {
		rooms, err = h.service.ListAvailableBeds(r.Context())
	} else {
		rooms, err = h.service.ListRooms(r.Context())
	}
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, rooms); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) GetByNumber(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomNumber, err := parseRoomNumber(ps)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByNumber", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	room, err := h.service.GetRoom(r.Context(), roomNumber)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByNumber", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByNumber", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) AvailableBeds(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomNumber, err := parseRoomNumber(ps)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AvailableBeds", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	beds, err := h.service.ListRoomAvailableBeds(r.Context(), roomNumber)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AvailableBeds", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, beds); err != nil {
		h.log.Error("failed to write success response", "handler", "AvailableBeds", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomNumber, err := parseRoomNumber(ps)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var update model.RoomUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.UpdateRoom(r.Context(), roomNumber, &update); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *RoomHandler) AddBeds(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomNumber, err := parseRoomNumber(ps)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddBeds", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var payload struct {
		Beds []model.Bed `json:"beds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AddBeds", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.AddBeds(r.Context(), roomNumber, payload.Beds); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddBeds", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, payload.Beds); err != nil {
		h.log.Error("failed to write created response", "handler", "AddBeds", "operation", "WriteCreated", "error", err)
	}
}

func (h *RoomHandler) UpdateBed(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomNumber, err := parseRoomNumber(ps)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateBed", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	bedNumber := ps.ByName("bedNumber")

	var payload struct {
		Status      model.BedStatus `json:"status"`
		PricePerBed *float64        `json:"price_per_bed,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateBed", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.UpdateBed(r.Context(), roomNumber, bedNumber, payload.Status, payload.PricePerBed); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateBed", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *RoomHandler) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

func parseRoomNumber(ps httprouter.Params) (int, error) {
	raw := ps.ByName("number")
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperrors.InvalidInput(fmt.Sprintf("invalid room number: %s", raw))
	}
	return n, nil
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/rooms", h.Create)
	router.GET("/api/v1/rooms", h.GetAll)
	router.GET("/api/v1/rooms/stats", h.Stats)
	router.GET("/api/v1/rooms/number/:number", h.GetByNumber)
	router.PATCH("/api/v1/rooms/number/:number", h.Update)
	router.GET("/api/v1/rooms/number/:number/beds/available", h.AvailableBeds)
	router.POST("/api/v1/rooms/number/:number/beds", h.AddBeds)
	router.PATCH("/api/v1/rooms/number/:number/beds/:bedNumber", h.UpdateBed)
}
