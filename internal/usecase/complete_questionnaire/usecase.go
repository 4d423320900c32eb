package complete_questionnaire

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/booking"
)

// UseCase use case для отметки заполненной анкеты и отправки брошюры
type UseCase struct {
	bookingRepo BookingRepository
	notifier    Notifier
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, notifier Notifier, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// Execute находит последнее подтверждённое бронирование клиента с незаполненной анкетой,
// отмечает анкету и ставит в очередь письмо с брошюрой
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	email := domain.NormalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		uc.logger.Warn("CompleteQuestionnaire: invalid email %q", req.Email)
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	booking, err := uc.bookingRepo.FindPendingQuestionnaire(ctx, email)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Info("CompleteQuestionnaire: no pending questionnaire for %s", email)
			return &Response{Matched: false}, nil
		}
		uc.logger.Error("CompleteQuestionnaire: failed to find booking for %s: %v", email, err)
		return nil, fmt.Errorf("%w: failed to find booking: %v", ErrInternal, err)
	}

	marked, err := uc.bookingRepo.MarkQuestionnaireCompleted(ctx, booking.ID)
	if err != nil {
		uc.logger.Error("CompleteQuestionnaire: failed to mark booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to mark questionnaire: %v", ErrInternal, err)
	}

	// Параллельный вебхук уже отметил анкету, брошюра поставлена им
	if !marked {
		uc.logger.Info("CompleteQuestionnaire: booking id=%d already marked", booking.ID)
		return &Response{Matched: true, BookingID: booking.ID}, nil
	}

	resp := &Response{Matched: true, BookingID: booking.ID}
	if err := uc.notifier.Enqueue(ctx, booking.ID, domain.NotificationBrochure); err != nil {
		uc.logger.Error("CompleteQuestionnaire: failed to enqueue brochure for booking id=%d: %v", booking.ID, err)
		return resp, nil
	}
	resp.BrochureQueued = true

	uc.logger.Info("CompleteQuestionnaire: booking id=%d marked, brochure queued", booking.ID)
	return resp, nil
}
