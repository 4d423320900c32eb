package update_event_status

import (
	"context"

	"github.com/m04kA/SMC-OpenHouseService/internal/service/events/models"
)

type EventService interface {
	UpdateStatus(ctx context.Context, eventID int64, req *models.UpdateStatusRequest) (*models.EventResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
