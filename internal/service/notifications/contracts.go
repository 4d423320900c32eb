package notifications

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	"github.com/m04kA/SMC-OpenHouseService/internal/integrations/google"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetDetails(ctx context.Context, id int64) (*domain.BookingDetails, error)
	MarkNotificationSent(ctx context.Context, id int64, kind domain.NotificationKind) error
	SetCalendarEvent(ctx context.Context, id int64, eventID, link string) error
}

// TokenProvider выдаёт токены Google агента
type TokenProvider interface {
	TokenSource(ctx context.Context, agentID int64) (oauth2.TokenSource, error)
}

// EmailSender отправляет письма от имени агента
type EmailSender interface {
	SendEmail(ctx context.Context, ts oauth2.TokenSource, email google.Email) (string, error)
}

// CalendarClient создаёт события в календаре агента
type CalendarClient interface {
	CreateOpenHouseEvent(ctx context.Context, ts oauth2.TokenSource, data google.OpenHouseEventData) (*google.CalendarEvent, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
