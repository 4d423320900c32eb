package domain

import (
	"time"

	"github.com/m04kA/SMC-OpenHouseService/pkg/types"
)

// TimeSlot is a bookable interval of an open house event
type TimeSlot struct {
	ID        int64
	EventID   int64
	StartTime types.TimeString
	EndTime   types.TimeString
	Capacity  int
	CreatedAt time.Time
}

// SlotSpec is a generated slot before it is persisted
type SlotSpec struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Capacity  int
}

// SlotAvailability is the occupancy of a slot at a point in time
type SlotAvailability struct {
	Occupied int
	Capacity int
	IsFull   bool
}

// Available returns the number of free places (never negative)
func (a SlotAvailability) Available() int {
	if a.Occupied >= a.Capacity {
		return 0
	}
	return a.Capacity - a.Occupied
}

// NewSlotAvailability builds availability from an occupied count
func NewSlotAvailability(occupied, capacity int) SlotAvailability {
	return SlotAvailability{
		Occupied: occupied,
		Capacity: capacity,
		IsFull:   occupied >= capacity,
	}
}

// AvailableSlot is a slot together with its current availability
type AvailableSlot struct {
	Slot         TimeSlot
	Availability SlotAvailability
}
