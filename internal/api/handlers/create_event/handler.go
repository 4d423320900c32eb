package create_event

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers"
	"github.com/m04kA/SMC-OpenHouseService/internal/api/middleware"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/events"
)

const (
	msgInvalidRequestBody = "corpo della richiesta non valido"
	msgInvalidInput       = "dati dell'evento non validi"
	msgInvalidTimeRange   = "intervallo orario non valido"
	msgInvalidEventDate   = "la data dell'evento è nel passato"
	msgUnauthorized       = "autenticazione richiesta"
	msgPropertyNotFound   = "immobile non trovato"
	msgForbidden          = "accesso negato"
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

// Handle POST /api/v1/events
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateEventRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /events - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	event, err := h.service.Create(r.Context(), req.ToServiceRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, events.ErrInvalidInput):
			h.logger.Warn("POST /events - Validation failed: property_id=%d: %v", req.PropertyID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, events.ErrInvalidTimeRange):
			h.logger.Warn("POST /events - Invalid time range: %s-%s", req.StartTime, req.EndTime)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, events.ErrInvalidEventDate):
			h.logger.Warn("POST /events - Event date in the past: %s", req.EventDate)
			handlers.RespondBadRequest(w, msgInvalidEventDate)

		case errors.Is(err, events.ErrPropertyNotFound):
			h.logger.Warn("POST /events - Property not found: property_id=%d", req.PropertyID)
			handlers.RespondNotFound(w, msgPropertyNotFound)

		case errors.Is(err, events.ErrAccessDenied):
			h.logger.Warn("POST /events - Access denied: property_id=%d, agent_id=%d", req.PropertyID, actor.AgentID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /events - Failed to create event: property_id=%d, error=%v", req.PropertyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /events - Event created successfully: event_id=%d, property_id=%d, agent_id=%d",
		event.ID, event.PropertyID, actor.AgentID)
	handlers.RespondJSON(w, http.StatusCreated, event)
}
