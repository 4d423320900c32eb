package create_booking

import (
	"context"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

// EventRepository интерфейс репозитория событий
type EventRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.OpenHouseEvent, error)
}

// SlotRepository интерфейс репозитория слотов.
// GetByID внутри транзакции обязан блокировать строку слота.
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	Upsert(ctx context.Context, client *domain.Client) (*domain.Client, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	CountOccupying(ctx context.Context, slotID int64) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier ставит уведомление о бронировании в очередь
type Notifier interface {
	Enqueue(ctx context.Context, bookingID int64, kind domain.NotificationKind) error
}

// Metrics счётчики результатов допуска
type Metrics interface {
	IncAdmission(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
