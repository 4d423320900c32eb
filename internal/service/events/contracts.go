package events

import (
	"context"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	eventRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/event"
)

// EventRepository интерфейс репозитория событий
type EventRepository interface {
	Create(ctx context.Context, event *domain.OpenHouseEvent) (*domain.OpenHouseEvent, error)
	GetByID(ctx context.Context, id int64) (*domain.OpenHouseEvent, error)
	Update(ctx context.Context, event *domain.OpenHouseEvent) error
	UpdateStatus(ctx context.Context, id int64, status domain.EventStatus, isActive bool) error
	List(ctx context.Context, filter eventRepo.ListFilter) ([]*domain.OpenHouseEvent, error)
}

// PropertyRepository интерфейс репозитория объектов
type PropertyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
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
