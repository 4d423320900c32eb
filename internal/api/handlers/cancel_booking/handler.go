package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers"
	"github.com/m04kA/SMC-OpenHouseService/internal/api/middleware"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/bookings"
)

const (
	msgInvalidBookingID   = "ID prenotazione non valido"
	msgInvalidRequestBody = "corpo della richiesta non valido"
	msgInvalidReason      = "motivo di cancellazione non valido"
	msgUnauthorized       = "autenticazione richiesta"
	msgNotFound           = "prenotazione non trovata"
	msgForbidden          = "accesso negato"
	msgCannotCancel       = "la prenotazione non può essere cancellata"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	// Тело необязательно
	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.Cancel(r.Context(), bookingID, req.ToServiceRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid reason: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidReason)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%d, agent_id=%d",
				bookingID, actor.AgentID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cannot cancel: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgCannotCancel)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled successfully: booking_id=%d, agent_id=%d",
		bookingID, actor.AgentID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
