package update_event

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers"
	"github.com/m04kA/SMC-OpenHouseService/internal/api/middleware"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/events"
)

const (
	msgInvalidEventID     = "ID evento non valido"
	msgInvalidRequestBody = "corpo della richiesta non valido"
	msgInvalidInput       = "dati dell'evento non validi"
	msgInvalidTimeRange   = "intervallo orario non valido"
	msgInvalidEventDate   = "la data dell'evento è nel passato"
	msgUnauthorized       = "autenticazione richiesta"
	msgEventNotFound      = "evento non trovato"
	msgForbidden          = "accesso negato"
	msgEventClosed        = "l'evento è concluso o annullato e non può essere modificato"
	msgEventHasBookings   = "l'evento ha già delle prenotazioni, orari e posti non sono modificabili"
)

type Handler struct {
	service EventService
	logger  Logger
}

func NewHandler(service EventService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/events/{eventId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	eventID, err := handlers.PathInt64(r, "eventId")
	if err != nil {
		h.logger.Warn("PATCH /events/{id} - Invalid event ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEventID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req UpdateEventRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /events/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	event, err := h.service.Update(r.Context(), eventID, req.ToServiceRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, events.ErrInvalidInput):
			h.logger.Warn("PATCH /events/{id} - Validation failed: event_id=%d: %v", eventID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, events.ErrInvalidTimeRange):
			h.logger.Warn("PATCH /events/{id} - Invalid time range: event_id=%d: %v", eventID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, events.ErrInvalidEventDate):
			h.logger.Warn("PATCH /events/{id} - Event date in the past: event_id=%d", eventID)
			handlers.RespondBadRequest(w, msgInvalidEventDate)

		case errors.Is(err, events.ErrEventNotFound):
			h.logger.Warn("PATCH /events/{id} - Event not found: event_id=%d", eventID)
			handlers.RespondNotFound(w, msgEventNotFound)

		case errors.Is(err, events.ErrAccessDenied):
			h.logger.Warn("PATCH /events/{id} - Access denied: event_id=%d, agent_id=%d", eventID, actor.AgentID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, events.ErrInvalidTransition):
			h.logger.Warn("PATCH /events/{id} - Event is closed: event_id=%d", eventID)
			handlers.RespondConflict(w, msgEventClosed)

		case errors.Is(err, events.ErrEventHasBookings):
			h.logger.Warn("PATCH /events/{id} - Event has bookings: event_id=%d", eventID)
			handlers.RespondConflict(w, msgEventHasBookings)

		default:
			h.logger.Error("PATCH /events/{id} - Failed to update event: event_id=%d, error=%v", eventID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /events/{id} - Event updated successfully: event_id=%d, slots=%d", eventID, len(event.Slots))
	handlers.RespondJSON(w, http.StatusOK, event)
}
