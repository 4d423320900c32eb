package models

import (
	"time"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

// Request модели

// CreateEventRequest запрос на создание события open house
type CreateEventRequest struct {
	Actor           domain.Actor
	PropertyID      int64
	EventDate       string // "2025-10-15"
	StartTime       string // "10:00"
	EndTime         string // "13:00"
	SlotDuration    int
	MaxParticipants int
	Notes           *string
}

// UpdateEventRequest запрос на изменение события.
// Незаданные поля сохраняют текущее значение.
type UpdateEventRequest struct {
	Actor           domain.Actor
	EventDate       *string
	StartTime       *string
	EndTime         *string
	SlotDuration    *int
	MaxParticipants *int
	Notes           *string
	IsActive        *bool
}

// UpdateStatusRequest запрос на смену статуса события
type UpdateStatusRequest struct {
	Actor  domain.Actor
	Status string
}

// Response модели

// PropertySummary данные объекта для публичной страницы события
type PropertySummary struct {
	ID          int64    `json:"id"`
	Title       string   `json:"titolo"`
	Type        string   `json:"tipo"`
	Price       *float64 `json:"prezzo,omitempty"`
	Address     string   `json:"indirizzo"`
	City        string   `json:"citta"`
	Province    *string  `json:"provincia,omitempty"`
	HasBrochure bool     `json:"hasBrochure"`
}

// EventResponse ответ с данными события
type EventResponse struct {
	ID              int64   `json:"id"`
	PropertyID      int64   `json:"propertyId"`
	AgentID         int64   `json:"agentId"`
	EventDate       string  `json:"eventDate"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	SlotDuration    int     `json:"slotDuration"`
	MaxParticipants int     `json:"maxParticipants"`
	Status          string  `json:"status"`
	IsActive        bool    `json:"isActive"`
	Notes           *string `json:"note,omitempty"`

	Property *PropertySummary `json:"property,omitempty"`
	Slots    []SlotSummary    `json:"slots,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SlotSummary слот, созданный вместе с событием
type SlotSummary struct {
	ID        int64  `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Capacity  int    `json:"capacity"`
}

// EventListResponse ответ со списком событий
type EventListResponse struct {
	Events []*EventResponse `json:"events"`
}

// FromDomainEvent конвертирует domain модель в DTO
func FromDomainEvent(e *domain.OpenHouseEvent) *EventResponse {
	if e == nil {
		return nil
	}

	return &EventResponse{
		ID:              e.ID,
		PropertyID:      e.PropertyID,
		AgentID:         e.AgentID,
		EventDate:       e.EventDate.Format(domain.DateFormat),
		StartTime:       e.StartTime.String(),
		EndTime:         e.EndTime.String(),
		SlotDuration:    e.SlotDuration,
		MaxParticipants: e.MaxParticipants,
		Status:          string(e.Status),
		IsActive:        e.IsActive,
		Notes:           e.Notes,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// WithProperty добавляет к ответу сводку по объекту
func (r *EventResponse) WithProperty(p *domain.Property) *EventResponse {
	if p == nil {
		return r
	}
	r.Property = &PropertySummary{
		ID:          p.ID,
		Title:       p.Title,
		Type:        p.Type,
		Price:       p.Price,
		Address:     p.Address,
		City:        p.City,
		Province:    p.Province,
		HasBrochure: p.HasBrochure(),
	}
	return r
}

// WithSlots добавляет к ответу созданные слоты
func (r *EventResponse) WithSlots(slots []*domain.TimeSlot) *EventResponse {
	r.Slots = make([]SlotSummary, 0, len(slots))
	for _, slot := range slots {
		r.Slots = append(r.Slots, SlotSummary{
			ID:        slot.ID,
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
			Capacity:  slot.Capacity,
		})
	}
	return r
}
