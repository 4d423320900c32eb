package worker

import (
	"context"
	"time"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

// Handler доставляет одно уведомление
type Handler interface {
	Notify(ctx context.Context, bookingID int64, kind domain.NotificationKind) error
}

// BookingLister источник бронирований с недоставленными уведомлениями
type BookingLister interface {
	ListUndelivered(ctx context.Context, from, to time.Time, limit uint64) ([]*domain.Booking, error)
}

// Enqueuer ставит уведомление в очередь
type Enqueuer interface {
	Enqueue(ctx context.Context, bookingID int64, kind domain.NotificationKind) error
}

// DeadLetters индекс уведомлений, снятых с доставки
type DeadLetters interface {
	IsDeadLettered(ctx context.Context, bookingID int64, kind domain.NotificationKind) (bool, error)
}

// Metrics метрики доставки и глубины очереди
type Metrics interface {
	IncNotification(kind, outcome string)
	SetQueueDepth(queue string, depth int64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
