package get_event_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers"
	"github.com/m04kA/SMC-OpenHouseService/internal/api/middleware"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/bookings"
)

const (
	msgInvalidEventID = "ID evento non valido"
	msgInvalidParams  = "parametri della richiesta non validi"
	msgUnauthorized   = "autenticazione richiesta"
	msgEventNotFound  = "evento non trovato"
	msgForbidden      = "accesso negato"
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

// Handle GET /api/v1/events/{eventId}/bookings
// Query params: status, includeCancelled (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	eventID, err := handlers.PathInt64(r, "eventId")
	if err != nil {
		h.logger.Warn("GET /events/{id}/bookings - Invalid event ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEventID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	serviceReq, err := ToServiceRequest(r, eventID, actor)
	if err != nil {
		h.logger.Warn("GET /events/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListEventBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /events/{id}/bookings - Invalid filter: event_id=%d: %v", eventID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, bookings.ErrEventNotFound):
			h.logger.Warn("GET /events/{id}/bookings - Event not found: event_id=%d", eventID)
			handlers.RespondNotFound(w, msgEventNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /events/{id}/bookings - Access denied: event_id=%d, agent_id=%d", eventID, actor.AgentID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /events/{id}/bookings - Failed to get bookings: event_id=%d, error=%v", eventID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /events/{id}/bookings - Bookings retrieved successfully: event_id=%d, count=%d",
		eventID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
