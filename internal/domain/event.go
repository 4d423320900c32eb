package domain

import (
	"time"

	"github.com/m04kA/SMC-OpenHouseService/pkg/types"
)

// EventStatus represents the publication status of an open house event
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// IsValid returns true for known event statuses
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for statuses after which the event is closed
func (s EventStatus) IsTerminal() bool {
	return s == EventStatusCompleted || s == EventStatusCancelled
}

// OpenHouseEvent is a viewing day for a property, split into time slots
type OpenHouseEvent struct {
	ID              int64
	PropertyID      int64
	AgentID         int64
	EventDate       time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	SlotDuration    int // minutes
	MaxParticipants int // per slot
	Status          EventStatus
	IsActive        bool
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsBookable returns true if the public can book slots of this event
func (e *OpenHouseEvent) IsBookable() bool {
	return e.IsActive && e.Status == EventStatusPublished
}

// CanTransitionTo returns true if the event may move to the given status.
// draft -> published -> completed; draft|published -> cancelled.
func (e *OpenHouseEvent) CanTransitionTo(to EventStatus) bool {
	switch e.Status {
	case EventStatusDraft:
		return to == EventStatusPublished || to == EventStatusCancelled
	case EventStatusPublished:
		return to == EventStatusCompleted || to == EventStatusCancelled
	default:
		return false
	}
}

// StartsAt returns the event start as an instant in loc
func (e *OpenHouseEvent) StartsAt(loc *time.Location) (time.Time, error) {
	return e.StartTime.On(e.EventDate, loc)
}
