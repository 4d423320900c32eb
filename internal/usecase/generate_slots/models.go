package generate_slots

import "github.com/m04kA/SMC-OpenHouseService/internal/domain"

// Request модель запроса на генерацию слотов
type Request struct {
	EventID int64
	Actor   domain.Actor
}

// Response результат генерации
type Response struct {
	SlotsCreated int
	Slots        []*domain.TimeSlot
}
