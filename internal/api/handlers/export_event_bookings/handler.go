package export_event_bookings

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers"
	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers/get_event_bookings"
	"github.com/m04kA/SMC-OpenHouseService/internal/api/middleware"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/bookings"
)

// ContentTypeXLSX MIME тип книги Excel
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

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

// Handle GET /api/v1/events/{eventId}/bookings/export
// Query params те же, что у списка бронирований
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	eventID, err := handlers.PathInt64(r, "eventId")
	if err != nil {
		h.logger.Warn("GET /events/{id}/bookings/export - Invalid event ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEventID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	serviceReq, err := get_event_bookings.ToServiceRequest(r, eventID, actor)
	if err != nil {
		h.logger.Warn("GET /events/{id}/bookings/export - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	data, err := h.service.ExportEventBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, bookings.ErrEventNotFound):
			h.logger.Warn("GET /events/{id}/bookings/export - Event not found: event_id=%d", eventID)
			handlers.RespondNotFound(w, msgEventNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /events/{id}/bookings/export - Access denied: event_id=%d, agent_id=%d", eventID, actor.AgentID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /events/{id}/bookings/export - Failed to export: event_id=%d, error=%v", eventID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /events/{id}/bookings/export - Exported successfully: event_id=%d, bytes=%d", eventID, len(data))
	handlers.RespondFile(w, ContentTypeXLSX, fmt.Sprintf("prenotazioni_evento_%d.xlsx", eventID), data)
}
