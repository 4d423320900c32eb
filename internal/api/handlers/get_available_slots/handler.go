package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-OpenHouseService/internal/usecase/get_available_slots"
)

const (
	msgInvalidEventID = "ID evento non valido"
	msgEventNotFound  = "evento non trovato"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/events/{eventId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	eventID, err := handlers.PathInt64(r, "eventId")
	if err != nil {
		h.logger.Warn("GET /events/{id}/slots - Invalid event ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEventID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{EventID: eventID})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /events/{id}/slots - Invalid input: event_id=%d: %v", eventID, err)
			handlers.RespondBadRequest(w, msgInvalidEventID)

		case errors.Is(err, getAvailableSlots.ErrEventNotFound):
			h.logger.Warn("GET /events/{id}/slots - Event not found: event_id=%d", eventID)
			handlers.RespondNotFound(w, msgEventNotFound)

		default:
			h.logger.Error("GET /events/{id}/slots - Failed to get slots: event_id=%d, error=%v", eventID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /events/{id}/slots - Slots retrieved successfully: event_id=%d, slots_count=%d",
		eventID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
