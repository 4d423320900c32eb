package get_event

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/events"
)

const (
	msgInvalidEventID = "ID evento non valido"
	msgEventNotFound  = "evento non trovato"
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

// Handle GET /api/v1/events/{eventId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	eventID, err := handlers.PathInt64(r, "eventId")
	if err != nil {
		h.logger.Warn("GET /events/{id} - Invalid event ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEventID)
		return
	}

	event, err := h.service.GetPublic(r.Context(), eventID)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidEventID)

		case errors.Is(err, events.ErrEventNotFound):
			h.logger.Warn("GET /events/{id} - Event not found: event_id=%d", eventID)
			handlers.RespondNotFound(w, msgEventNotFound)

		default:
			h.logger.Error("GET /events/{id} - Failed to get event: event_id=%d, error=%v", eventID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /events/{id} - Event retrieved successfully: event_id=%d", eventID)
	handlers.RespondJSON(w, http.StatusOK, event)
}
