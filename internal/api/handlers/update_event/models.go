package update_event

import (
	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/events/models"
)

// UpdateEventRequest HTTP request model, отсутствующие поля не меняются
type UpdateEventRequest struct {
	EventDate       *string `json:"eventDate,omitempty"` // "2025-10-15"
	StartTime       *string `json:"startTime,omitempty"` // "10:00"
	EndTime         *string `json:"endTime,omitempty"`   // "13:00"
	SlotDuration    *int    `json:"slotDuration,omitempty"`
	MaxParticipants *int    `json:"maxParticipants,omitempty"`
	Notes           *string `json:"note,omitempty"`
	IsActive        *bool   `json:"isActive,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateEventRequest) ToServiceRequest(actor domain.Actor) *models.UpdateEventRequest {
	return &models.UpdateEventRequest{
		Actor:           actor,
		EventDate:       r.EventDate,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		SlotDuration:    r.SlotDuration,
		MaxParticipants: r.MaxParticipants,
		Notes:           r.Notes,
		IsActive:        r.IsActive,
	}
}
