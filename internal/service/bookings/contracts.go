package bookings

import (
	"context"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetDetails(ctx context.Context, id int64) (*domain.BookingDetails, error)
	ListDetails(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingDetails, error)
	Transition(ctx context.Context, id int64, from, to domain.BookingStatus, reason string) error
}

// EventRepository интерфейс репозитория событий
type EventRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.OpenHouseEvent, error)
}

// Exporter строит выгрузку бронирований события
type Exporter interface {
	EventBookings(event *domain.OpenHouseEvent, rows []*domain.BookingDetails) ([]byte, error)
}

// Metrics счётчики переходов статусов
type Metrics interface {
	IncTransition(status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
