package update_event_status

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
	msgInvalidStatus      = "stato non valido, ammessi: draft, published, completed, cancelled"
	msgUnauthorized       = "autenticazione richiesta"
	msgEventNotFound      = "evento non trovato"
	msgForbidden          = "accesso negato"
	msgInvalidTransition  = "cambio di stato dell'evento non consentito"
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

// Handle PATCH /api/v1/events/{eventId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	eventID, err := handlers.PathInt64(r, "eventId")
	if err != nil {
		h.logger.Warn("PATCH /events/{id}/status - Invalid event ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEventID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /events/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	event, err := h.service.UpdateStatus(r.Context(), eventID, req.ToServiceRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, events.ErrInvalidInput):
			h.logger.Warn("PATCH /events/{id}/status - Invalid status: event_id=%d, status=%s", eventID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, events.ErrEventNotFound):
			h.logger.Warn("PATCH /events/{id}/status - Event not found: event_id=%d", eventID)
			handlers.RespondNotFound(w, msgEventNotFound)

		case errors.Is(err, events.ErrAccessDenied):
			h.logger.Warn("PATCH /events/{id}/status - Access denied: event_id=%d, agent_id=%d", eventID, actor.AgentID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, events.ErrInvalidTransition):
			h.logger.Warn("PATCH /events/{id}/status - Invalid transition: event_id=%d, status=%s", eventID, req.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /events/{id}/status - Failed to update status: event_id=%d, error=%v", eventID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /events/{id}/status - Status updated successfully: event_id=%d, status=%s", eventID, event.Status)
	handlers.RespondJSON(w, http.StatusOK, event)
}
