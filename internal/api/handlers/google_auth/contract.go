package google_auth

import (
	"context"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/googleauth/models"
)

type GoogleAuthService interface {
	ConnectURL(actor domain.Actor) (string, error)
	Callback(ctx context.Context, code, state string) (*models.CallbackResponse, error)
	Status(ctx context.Context, actor domain.Actor) (*models.StatusResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
