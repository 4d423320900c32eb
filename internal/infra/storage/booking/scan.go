package booking

import (
	"database/sql"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// bookingFields временные значения для сканирования колонок bookingColumns
type bookingFields struct {
	booking            domain.Booking
	cancellationReason sql.NullString
	cancelledAt        sql.NullTime
}

func (f *bookingFields) dest() []interface{} {
	b := &f.booking
	return []interface{}{
		&b.ID,
		&b.EventID,
		&b.SlotID,
		&b.ClientID,
		&b.AgentID,
		&b.Status,
		&b.Message,
		&f.cancellationReason,
		&f.cancelledAt,
		&b.QuestionnaireCompleted,
		&b.ConfirmationEmailSent,
		&b.AgentNotificationSent,
		&b.BrochureEmailSent,
		&b.CalendarEventID,
		&b.CalendarEventLink,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}

// result нормализует статус и собирает данные отмены
func (f *bookingFields) result() *domain.Booking {
	b := f.booking

	var reason *string
	if f.cancellationReason.Valid {
		reason = &f.cancellationReason.String
	}
	b.Status = domain.NormalizeStatus(b.Status, reason)

	if b.Status == domain.StatusCancelled {
		cancellation := &domain.Cancellation{Reason: domain.DefaultCancellationReason}
		if reason != nil && *reason != "" {
			cancellation.Reason = *reason
		}
		if f.cancelledAt.Valid {
			cancellation.At = f.cancelledAt.Time
		}
		b.Cancellation = cancellation
	}

	return &b
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var f bookingFields
	if err := row.Scan(f.dest()...); err != nil {
		return nil, err
	}
	return f.result(), nil
}
