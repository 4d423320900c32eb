package questionnaire_webhook

import (
	completeQuestionnaire "github.com/m04kA/SMC-OpenHouseService/internal/usecase/complete_questionnaire"
)

// WebhookRequest тело вебхука формы анкеты
type WebhookRequest struct {
	Email string `json:"email"`
}

// WebhookResponse HTTP response model
type WebhookResponse struct {
	Matched        bool   `json:"matched"`
	BookingID      int64  `json:"bookingId,omitempty"`
	BrochureQueued bool   `json:"brochureQueued"`
	Message        string `json:"message"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *completeQuestionnaire.Response) *WebhookResponse {
	out := &WebhookResponse{
		Matched:        resp.Matched,
		BookingID:      resp.BookingID,
		BrochureQueued: resp.BrochureQueued,
	}

	switch {
	case !resp.Matched:
		out.Message = msgNoPendingBooking
	case resp.BrochureQueued:
		out.Message = msgBrochureQueued
	default:
		out.Message = msgQuestionnaireRecorded
	}
	return out
}
