package create_booking

import "github.com/m04kA/SMC-OpenHouseService/internal/domain"

// ClientInfo контактные данные посетителя из формы бронирования
type ClientInfo struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Message   *string // Сообщение агенту (опционально)
}

// Request модель запроса на создание бронирования
type Request struct {
	EventID         int64
	SlotID          int64
	Client          ClientInfo
	PrivacyAccepted bool
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking
	Client  *domain.Client
	Slot    *domain.TimeSlot
	// Занятость слота сразу после допуска
	Availability domain.SlotAvailability
}
