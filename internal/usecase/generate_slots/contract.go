package generate_slots

import (
	"context"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

// EventRepository интерфейс репозитория событий
type EventRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.OpenHouseEvent, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	DeleteByEvent(ctx context.Context, eventID int64) (int64, error)
	CreateBatch(ctx context.Context, eventID int64, specs []domain.SlotSpec) ([]*domain.TimeSlot, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountByEvent(ctx context.Context, eventID int64) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
