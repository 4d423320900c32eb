package generate_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers"
	"github.com/m04kA/SMC-OpenHouseService/internal/api/middleware"
	generateSlots "github.com/m04kA/SMC-OpenHouseService/internal/usecase/generate_slots"
)

const (
	msgInvalidEventID   = "ID evento non valido"
	msgUnauthorized     = "autenticazione richiesta"
	msgEventNotFound    = "evento non trovato"
	msgForbidden        = "accesso negato"
	msgEventHasBookings = "l'evento ha già delle prenotazioni, impossibile rigenerare le fasce orarie"
)

type Handler struct {
	useCase GenerateSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GenerateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/events/{eventId}/generate-slots
// и POST /api/v1/generate-slots с телом {eventId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	eventID, err := h.eventID(r)
	if err != nil {
		h.logger.Warn("POST /generate-slots - Invalid event ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEventID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &generateSlots.Request{EventID: eventID, Actor: actor})
	if err != nil {
		switch {
		case errors.Is(err, generateSlots.ErrInvalidInput):
			h.logger.Warn("POST /generate-slots - Invalid input: event_id=%d: %v", eventID, err)
			handlers.RespondBadRequest(w, msgInvalidEventID)

		case errors.Is(err, generateSlots.ErrEventNotFound):
			h.logger.Warn("POST /generate-slots - Event not found: event_id=%d", eventID)
			handlers.RespondNotFound(w, msgEventNotFound)

		case errors.Is(err, generateSlots.ErrAccessDenied):
			h.logger.Warn("POST /generate-slots - Access denied: event_id=%d, agent_id=%d", eventID, actor.AgentID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, generateSlots.ErrEventHasBookings):
			h.logger.Warn("POST /generate-slots - Event has bookings: event_id=%d", eventID)
			handlers.RespondConflict(w, msgEventHasBookings)

		default:
			h.logger.Error("POST /generate-slots - Failed to generate slots: event_id=%d, error=%v", eventID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /generate-slots - Slots generated successfully: event_id=%d, slots_created=%d",
		eventID, result.SlotsCreated)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// eventID берется из пути, если он есть, иначе из тела запроса
func (h *Handler) eventID(r *http.Request) (int64, error) {
	if _, ok := mux.Vars(r)["eventId"]; ok {
		return handlers.PathInt64(r, "eventId")
	}

	var req GenerateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		return 0, err
	}
	if req.EventID <= 0 {
		return 0, errors.New("eventId must be positive")
	}
	return req.EventID, nil
}
