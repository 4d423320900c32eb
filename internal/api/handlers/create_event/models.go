package create_event

import (
	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/events/models"
)

// CreateEventRequest HTTP request model
type CreateEventRequest struct {
	PropertyID      int64   `json:"propertyId"`
	EventDate       string  `json:"eventDate"` // "2025-10-15"
	StartTime       string  `json:"startTime"` // "10:00"
	EndTime         string  `json:"endTime"`   // "13:00"
	SlotDuration    int     `json:"slotDuration"`
	MaxParticipants int     `json:"maxParticipants"`
	Notes           *string `json:"note,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateEventRequest) ToServiceRequest(actor domain.Actor) *models.CreateEventRequest {
	return &models.CreateEventRequest{
		Actor:           actor,
		PropertyID:      r.PropertyID,
		EventDate:       r.EventDate,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		SlotDuration:    r.SlotDuration,
		MaxParticipants: r.MaxParticipants,
		Notes:           r.Notes,
	}
}
