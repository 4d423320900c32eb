package get_available_slots

import (
	getAvailableSlots "github.com/m04kA/SMC-OpenHouseService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	EventID  int64           `json:"eventId"`
	Bookable bool            `json:"bookable"`
	Slots    []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	ID             int64  `json:"id"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Occupied       int    `json:"occupied"`
	Capacity       int    `json:"capacity"`
	AvailableSpots int    `json:"available"`
	IsFull         bool   `json:"isFull"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = AvailableSlot{
			ID:             s.Slot.ID,
			StartTime:      s.Slot.StartTime.String(),
			EndTime:        s.Slot.EndTime.String(),
			Occupied:       s.Availability.Occupied,
			Capacity:       s.Availability.Capacity,
			AvailableSpots: s.Availability.Available(),
			IsFull:         s.Availability.IsFull,
		}
	}

	return &AvailableSlotsResponse{
		EventID:  resp.EventID,
		Bookable: resp.Bookable,
		Slots:    slots,
	}
}
