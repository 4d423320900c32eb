package domain

import (
	"errors"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
	StatusCancelled BookingStatus = "cancelled"
)

// DefaultCancellationReason is stamped when an agent cancels without a reason.
// Rows written before the cancelled status existed carry it together with no_show.
const DefaultCancellationReason = "cancelled_by_agent"

// ErrInvalidTransition is returned when a status change is not allowed
var ErrInvalidTransition = errors.New("domain: invalid booking status transition")

// IsValid returns true for known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCompleted, StatusNoShow, StatusCancelled:
		return true
	}
	return false
}

// OccupiesSeat returns true if a booking in this status holds a place in its slot
func (s BookingStatus) OccupiesSeat() bool {
	return s == StatusConfirmed || s == StatusCompleted || s == StatusNoShow
}

// NormalizeStatus maps a stored status to its current meaning.
// Legacy cancellations were stored as no_show + cancelled_by_agent.
func NormalizeStatus(stored BookingStatus, cancellationReason *string) BookingStatus {
	if stored == StatusNoShow && cancellationReason != nil && *cancellationReason == DefaultCancellationReason {
		return StatusCancelled
	}
	return stored
}

// Cancellation holds the details of a cancelled booking
type Cancellation struct {
	Reason string
	At     time.Time
}

// Booking represents a client's reservation of a place in a time slot
type Booking struct {
	ID       int64
	EventID  int64
	SlotID   int64
	ClientID int64
	AgentID  int64
	Status   BookingStatus
	Message  *string

	// Set only when Status == StatusCancelled
	Cancellation *Cancellation

	QuestionnaireCompleted bool
	ConfirmationEmailSent  bool
	AgentNotificationSent  bool
	BrochureEmailSent      bool
	CalendarEventID        *string
	CalendarEventLink      *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupiesSeat returns true if the booking holds a place in its slot
func (b *Booking) OccupiesSeat() bool {
	return b.Status.OccupiesSeat()
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// HasCalendarEvent returns true if a calendar event was already created
func (b *Booking) HasCalendarEvent() bool {
	return b.CalendarEventID != nil && *b.CalendarEventID != ""
}

// DisplayStatus returns the status shown to agents
func (b *Booking) DisplayStatus() string {
	return string(b.Status)
}

// CheckTransition validates a status change.
// Only confirmed bookings can move; completed -> completed is an idempotent no-op
// reported with changed == false.
func (b *Booking) CheckTransition(to BookingStatus) (changed bool, err error) {
	if !to.IsValid() || to == StatusConfirmed {
		return false, ErrInvalidTransition
	}
	if b.Status == StatusCompleted && to == StatusCompleted {
		return false, nil
	}
	if b.Status != StatusConfirmed {
		return false, ErrInvalidTransition
	}
	return true, nil
}

// BookingsFilter фильтр бронирований события
type BookingsFilter struct {
	EventID          int64          // Обязательный параметр
	Status           *BookingStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool           // Включать ли отменённые
}
