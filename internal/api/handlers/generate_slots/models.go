package generate_slots

import (
	generateSlots "github.com/m04kA/SMC-OpenHouseService/internal/usecase/generate_slots"
)

// GenerateSlotsRequest тело запроса для POST /api/v1/generate-slots
type GenerateSlotsRequest struct {
	EventID int64 `json:"eventId"`
}

// SlotResponse созданный слот
type SlotResponse struct {
	ID        int64  `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Capacity  int    `json:"capacity"`
}

// GenerateSlotsResponse HTTP response model
type GenerateSlotsResponse struct {
	SlotsCreated int            `json:"slotsCreated"`
	Slots        []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *generateSlots.Response) *GenerateSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			ID:        s.ID,
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
			Capacity:  s.Capacity,
		})
	}

	return &GenerateSlotsResponse{
		SlotsCreated: resp.SlotsCreated,
		Slots:        slots,
	}
}
