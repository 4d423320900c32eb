package get_available_slots

import "github.com/m04kA/SMC-OpenHouseService/internal/domain"

// buildAvailability сопоставляет слоты с количеством занятых мест.
// Слоты без бронирований считаются свободными.
func buildAvailability(slots []*domain.TimeSlot, occupied map[int64]int) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		result = append(result, domain.AvailableSlot{
			Slot:         *slot,
			Availability: domain.NewSlotAvailability(occupied[slot.ID], slot.Capacity),
		})
	}
	return result
}
