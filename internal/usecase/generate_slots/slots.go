package generate_slots

import (
	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	"github.com/m04kA/SMC-OpenHouseService/pkg/types"
)

// GenerateSlots делит окно [windowStart, windowEnd) на последовательные слоты
// длительностью durationMinutes. Неполный хвостовой слот отбрасывается.
// Функция чистая: одинаковые входные данные дают одинаковый результат.
// При некорректном окне или длительности возвращается пустой слайс.
func GenerateSlots(windowStart, windowEnd types.TimeString, durationMinutes, capacity int) []domain.SlotSpec {
	slots := make([]domain.SlotSpec, 0)
	if durationMinutes <= 0 {
		return slots
	}

	start, err := windowStart.Minutes()
	if err != nil {
		return slots
	}
	end, err := windowEnd.Minutes()
	if err != nil {
		return slots
	}

	for t := start; t+durationMinutes <= end; t += durationMinutes {
		// t+durationMinutes <= end < 24:00, ошибок быть не может
		slotStart, _ := types.FromMinutes(t)
		slotEnd, _ := types.FromMinutes(t + durationMinutes)

		slots = append(slots, domain.SlotSpec{
			StartTime: slotStart,
			EndTime:   slotEnd,
			Capacity:  capacity,
		})
	}

	return slots
}
