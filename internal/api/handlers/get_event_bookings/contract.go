package get_event_bookings

import (
	"context"

	"github.com/m04kA/SMC-OpenHouseService/internal/service/bookings/models"
)

type BookingService interface {
	ListEventBookings(ctx context.Context, req *models.ListEventBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
