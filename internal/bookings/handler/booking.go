package handler

import (
	"encoding/json"
	"net/http"

	bookingserrors "toolrent/internal/bookings/errors"
	"toolrent/internal/bookings/service"
	apperrors "toolrent/pkg/errors"
	httputil "toolrent/pkg/http"
	"toolrent/pkg/logger"
	"toolrent/pkg/middleware"
	"toolrent/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	userID, err := renter(r, booking.UserID)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}
	booking.UserID = userID

	if err := h.service.Create(r.Context(), &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}
	query := r.URL.Query()

	bookings, total, err := h.service.Search(r.Context(), query.Get("tool_id"), query.Get("user_id"), limit, offset)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "operation", "WritePaginated", "error", err)
	}
}

// Cancel deletes by id. With authentication on, only the renter who holds
// the booking may cancel it.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if subject := middleware.SubjectFromContext(r.Context()); subject != "" {
		booking, err := h.service.GetByID(r.Context(), id)
		if err != nil {
			h.writeError(w, "Cancel", err)
			return
		}
		if booking.UserID != subject {
			h.writeError(w, "Cancel", apperrors.Forbidden("Booking belongs to another renter"))
			return
		}
	}

	if err := h.service.Cancel(r.Context(), id); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) CancelMatching(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "CancelMatching", apperrors.InvalidInput("Invalid request body"))
		return
	}

	userID, err := renter(r, req.UserID)
	if err != nil {
		h.writeError(w, "CancelMatching", err)
		return
	}
	req.UserID = userID

	if err := h.service.CancelMatching(r.Context(), &req); err != nil {
		h.writeError(w, "CancelMatching", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	result, err := h.service.CheckAvailability(r.Context(), query.Get("tool_id"), query.Get("start_date"), query.Get("end_date"))
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) BlockedDates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	result, err := h.service.BlockedDates(r.Context(), query.Get("tool_id"), query.Get("from"), query.Get("to"))
	if err != nil {
		h.writeError(w, "BlockedDates", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "BlockedDates", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.DELETE("/api/v1/bookings/id/:id", h.Cancel)
	router.POST("/api/v1/bookings/cancel", h.CancelMatching)
	router.GET("/api/v1/bookings/search", h.Search)
	router.GET("/api/v1/bookings/availability", h.Availability)
	router.GET("/api/v1/bookings/blocked-dates", h.BlockedDates)
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

// renter resolves the user id a request acts for. An authenticated subject
// fills an empty id and must match a supplied one.
func renter(r *http.Request, userID string) (string, error) {
	subject := middleware.SubjectFromContext(r.Context())
	switch {
	case subject == "":
		return userID, nil
	case userID == "":
		return subject, nil
	case userID != subject:
		return "", apperrors.Forbidden(bookingserrors.ErrUserMismatch.Error())
	default:
		return userID, nil
	}
}
