package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-OpenHouseService/internal/usecase/create_booking"
)

// ClientRequest контактные данные из публичной формы
type ClientRequest struct {
	FirstName string  `json:"nome"`
	LastName  string  `json:"cognome"`
	Email     string  `json:"email"`
	Phone     string  `json:"telefono"`
	Message   *string `json:"messaggio,omitempty"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	EventID         int64         `json:"eventId"`
	SlotID          int64         `json:"slotId"`
	Client          ClientRequest `json:"client"`
	PrivacyAccepted bool          `json:"privacyAccepted"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID             int64   `json:"id"`
	EventID        int64   `json:"eventId"`
	SlotID         int64   `json:"slotId"`
	ClientID       int64   `json:"clientId"`
	Status         string  `json:"status"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	Message        *string `json:"messaggio,omitempty"`
	AvailableSpots int     `json:"availableSpots"`
	TotalSpots     int     `json:"totalSpots"`
	CreatedAt      string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	return &createBooking.Request{
		EventID: r.EventID,
		SlotID:  r.SlotID,
		Client: createBooking.ClientInfo{
			FirstName: r.Client.FirstName,
			LastName:  r.Client.LastName,
			Email:     r.Client.Email,
			Phone:     r.Client.Phone,
			Message:   r.Client.Message,
		},
		PrivacyAccepted: r.PrivacyAccepted,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:             resp.Booking.ID,
		EventID:        resp.Booking.EventID,
		SlotID:         resp.Booking.SlotID,
		ClientID:       resp.Booking.ClientID,
		Status:         string(resp.Booking.Status),
		StartTime:      resp.Slot.StartTime.String(),
		EndTime:        resp.Slot.EndTime.String(),
		Message:        resp.Booking.Message,
		AvailableSpots: resp.Availability.Available(),
		TotalSpots:     resp.Availability.Capacity,
		CreatedAt:      resp.Booking.CreatedAt.Format(time.RFC3339),
	}
}
