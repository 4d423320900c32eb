package get_available_slots

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
	ListByEvent(ctx context.Context, eventID int64) ([]*domain.TimeSlot, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountOccupyingByEvent(ctx context.Context, eventID int64) (map[int64]int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
