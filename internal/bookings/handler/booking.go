package handler

import (
	"encoding/json"
	"net/http"

	"hms/internal/bookings/service"
	httputil "hms/pkg/http"
	"hms/pkg/logger"
	"hms/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service   service.BookingService
	lifecycle service.LifecycleService
	log       *logger.Logger
}

func NewBookingHandler(service service.BookingService, lifecycle service.LifecycleService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:   service,
		lifecycle: lifecycle,
		log:       log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	selfService := r.URL.Query().Get("self_service") == "true"

	if err := h.service.Create(r.Context(), &booking, selfService); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter, err := h.parseFilter(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), filter)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, filter.Limit, filter.Offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var payload struct {
		Status model.BookingStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateStatus", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, payload.Status); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) UpdatePayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var payload struct {
		PaymentStatus model.PaymentStatus `json:"payment_status"`
		PaymentMethod model.PaymentMethod `json:"payment_method,omitempty"`
		TransactionID string              `json:"transaction_id,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdatePayment", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.lifecycle.UpdatePayment(r.Context(), id, payload.PaymentStatus, payload.PaymentMethod, payload.TransactionID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdatePayment", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Receipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	receipt, err := h.lifecycle.GenerateReceipt(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Receipt", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, receipt); err != nil {
		h.log.Error("failed to write success response", "handler", "Receipt", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) parseFilter(r *http.Request) (*model.BookingFilter, error) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		return nil, err
	}

	query := r.URL.Query()
	filter := &model.BookingFilter{
		Status: model.BookingStatus(query.Get("status")),
		Limit:  limit,
		Offset: offset,
	}

	from, err := httputil.ParseDate("from", query.Get("from"))
	if err != nil {
		return nil, err
	}
	filter.From = from

	to, err := httputil.ParseDate("to", query.Get("to"))
	if err != nil {
		return nil, err
	}
	filter.To = to

	return filter, nil
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id/status", h.UpdateStatus)
	router.PATCH("/api/v1/bookings/id/:id/payment", h.UpdatePayment)
	router.GET("/api/v1/bookings/id/:id/receipt", h.Receipt)
}
