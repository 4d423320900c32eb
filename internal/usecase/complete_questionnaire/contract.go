package complete_questionnaire

import (
	"context"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	FindPendingQuestionnaire(ctx context.Context, clientEmail string) (*domain.Booking, error)
	MarkQuestionnaireCompleted(ctx context.Context, id int64) (bool, error)
}

// Notifier ставит уведомление в очередь доставки
type Notifier interface {
	Enqueue(ctx context.Context, bookingID int64, kind domain.NotificationKind) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
