package list_events

import (
	"context"

	"github.com/m04kA/SMC-OpenHouseService/internal/service/events/models"
)

type EventService interface {
	ListPublic(ctx context.Context) (*models.EventListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
