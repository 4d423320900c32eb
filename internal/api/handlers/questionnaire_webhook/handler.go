package questionnaire_webhook

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers"
	completeQuestionnaire "github.com/m04kA/SMC-OpenHouseService/internal/usecase/complete_questionnaire"
)

const (
	msgInvalidRequestBody    = "corpo della richiesta non valido"
	msgInvalidEmail          = "email non valida"
	msgNoPendingBooking      = "nessuna prenotazione in attesa di questionario per questo cliente"
	msgBrochureQueued        = "questionario registrato, brochure in invio"
	msgQuestionnaireRecorded = "questionario registrato"
)

type Handler struct {
	useCase CompleteQuestionnaireUseCase
	logger  Logger
}

func NewHandler(useCase CompleteQuestionnaireUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/webhooks/questionnaire
// Секрет вебхука проверяется middleware
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req WebhookRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /webhooks/questionnaire - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &completeQuestionnaire.Request{Email: req.Email})
	if err != nil {
		switch {
		case errors.Is(err, completeQuestionnaire.ErrInvalidInput):
			h.logger.Warn("POST /webhooks/questionnaire - Invalid email: %v", err)
			handlers.RespondBadRequest(w, msgInvalidEmail)

		default:
			h.logger.Error("POST /webhooks/questionnaire - Failed to process questionnaire: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /webhooks/questionnaire - Processed: matched=%t, booking_id=%d, brochure_queued=%t",
		result.Matched, result.BookingID, result.BrochureQueued)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
