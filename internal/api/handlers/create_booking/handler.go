package create_booking

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-OpenHouseService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "corpo della richiesta non valido"
	msgInvalidInput       = "dati della prenotazione non validi"
	msgEventNotFound      = "evento non trovato"
	msgSlotNotFound       = "fascia oraria non trovata"
	msgSlotFull           = "la fascia oraria selezionata è al completo"
	msgEventInactive      = "l'evento non accetta prenotazioni"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Validation failed: event_id=%d, slot_id=%d: %v", req.EventID, req.SlotID, err)
			handlers.RespondBadRequest(w, msgInvalidInput+": "+validationDetail(err))

		case errors.Is(err, createBooking.ErrEventNotFound):
			h.logger.Warn("POST /bookings - Event not found: event_id=%d", req.EventID)
			handlers.RespondNotFound(w, msgEventNotFound)

		case errors.Is(err, createBooking.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: event_id=%d, slot_id=%d", req.EventID, req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createBooking.ErrSlotFull):
			h.logger.Warn("POST /bookings - Slot full: event_id=%d, slot_id=%d", req.EventID, req.SlotID)
			handlers.RespondConflict(w, msgSlotFull)

		case errors.Is(err, createBooking.ErrEventInactive):
			h.logger.Warn("POST /bookings - Event inactive: event_id=%d", req.EventID)
			handlers.RespondUnprocessable(w, msgEventInactive)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: event_id=%d, slot_id=%d, error=%v",
				req.EventID, req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, event_id=%d, slot_id=%d",
		result.Booking.ID, req.EventID, req.SlotID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

// validationDetail текст после префикса ошибки валидации
func validationDetail(err error) string {
	return strings.TrimPrefix(err.Error(), createBooking.ErrInvalidInput.Error()+": ")
}
