package export_event_bookings

import (
	"context"

	"github.com/m04kA/SMC-OpenHouseService/internal/service/bookings/models"
)

type BookingService interface {
	ExportEventBookings(ctx context.Context, req *models.ListEventBookingsRequest) ([]byte, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
