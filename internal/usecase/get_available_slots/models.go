package get_available_slots

import "github.com/m04kA/SMC-OpenHouseService/internal/domain"

// Request модель запроса доступных слотов
type Request struct {
	EventID int64
}

// Response слоты события с текущей занятостью
type Response struct {
	EventID  int64
	Bookable bool // событие опубликовано и принимает бронирования
	Slots    []domain.AvailableSlot
}
