package models

import (
	"errors"
	"strings"
	"time"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// UpdateStatusRequest запрос агента на смену статуса (completed | no_show)
type UpdateStatusRequest struct {
	Actor  domain.Actor
	Status string
}

// CancelBookingRequest запрос агента на отмену бронирования
type CancelBookingRequest struct {
	Actor  domain.Actor
	Reason string // Пустая причина заменяется на cancelled_by_agent
}

// ListEventBookingsRequest запрос на получение бронирований события
type ListEventBookingsRequest struct {
	Actor            domain.Actor
	EventID          int64
	Status           *string // Фильтр по статусу (опционально)
	IncludeCancelled bool    // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListEventBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		EventID:          r.EventID,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ClientResponse контактные данные клиента
type ClientResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"nome"`
	LastName  string `json:"cognome"`
	Email     string `json:"email"`
	Phone     string `json:"telefono"`
}

// SlotResponse интервал бронирования
type SlotResponse struct {
	ID        int64  `json:"id"`
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "10:30"
}

// EventSummary краткие данные события и объекта
type EventSummary struct {
	ID            int64  `json:"id"`
	EventDate     string `json:"eventDate"` // "2025-10-15"
	PropertyID    int64  `json:"propertyId"`
	PropertyTitle string `json:"propertyTitle"`
	Address       string `json:"address"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64   `json:"id"`
	EventID       int64   `json:"eventId"`
	SlotID        int64   `json:"slotId"`
	AgentID       int64   `json:"agentId"`
	Status        string  `json:"status"`
	DisplayStatus string  `json:"displayStatus"`
	Message       *string `json:"messaggio,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	QuestionnaireCompleted bool    `json:"questionnaireCompleted"`
	ConfirmationEmailSent  bool    `json:"confirmationEmailSent"`
	AgentNotificationSent  bool    `json:"agentNotificationSent"`
	BrochureEmailSent      bool    `json:"brochureEmailSent"`
	CalendarEventLink      *string `json:"calendarEventLink,omitempty"`

	Client *ClientResponse `json:"client,omitempty"`
	Slot   *SlotResponse   `json:"slot,omitempty"`
	Event  *EventSummary   `json:"event,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                     b.ID,
		EventID:                b.EventID,
		SlotID:                 b.SlotID,
		AgentID:                b.AgentID,
		Status:                 string(b.Status),
		DisplayStatus:          b.DisplayStatus(),
		Message:                b.Message,
		QuestionnaireCompleted: b.QuestionnaireCompleted,
		ConfirmationEmailSent:  b.ConfirmationEmailSent,
		AgentNotificationSent:  b.AgentNotificationSent,
		BrochureEmailSent:      b.BrochureEmailSent,
		CalendarEventLink:      b.CalendarEventLink,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
	}

	if b.Cancellation != nil {
		reason := b.Cancellation.Reason
		resp.CancellationReason = &reason
		if !b.Cancellation.At.IsZero() {
			cancelledStr := b.Cancellation.At.Format(time.RFC3339)
			resp.CancelledAt = &cancelledStr
		}
	}

	return resp
}

// FromDomainDetails конвертирует бронирование вместе с клиентом, слотом и событием
func FromDomainDetails(d *domain.BookingDetails) *BookingResponse {
	if d == nil {
		return nil
	}

	resp := FromDomainBooking(&d.Booking)
	resp.Client = &ClientResponse{
		ID:        d.Client.ID,
		FirstName: d.Client.FirstName,
		LastName:  d.Client.LastName,
		Email:     d.Client.Email,
		Phone:     d.Client.Phone,
	}
	resp.Slot = &SlotResponse{
		ID:        d.Slot.ID,
		StartTime: d.Slot.StartTime.String(),
		EndTime:   d.Slot.EndTime.String(),
	}
	resp.Event = &EventSummary{
		ID:            d.Event.ID,
		EventDate:     d.Event.EventDate.Format(domain.DateFormat),
		PropertyID:    d.Property.ID,
		PropertyTitle: d.Property.Title,
		Address:       d.Property.FullAddress(),
	}

	return resp
}

// FromDomainDetailsList конвертирует список бронирований в DTO
func FromDomainDetailsList(details []*domain.BookingDetails) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(details)),
	}

	for _, d := range details {
		if d == nil {
			continue
		}
		resp.Bookings = append(resp.Bookings, *FromDomainDetails(d))
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(strings.ToLower(strings.TrimSpace(status)))
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
