package generate_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_slots: invalid input data")

	// ErrEventNotFound возвращается, когда событие не найдено
	ErrEventNotFound = errors.New("generate_slots: event not found")

	// ErrAccessDenied возвращается, когда событие принадлежит другому агенту
	ErrAccessDenied = errors.New("generate_slots: access denied")

	// ErrEventHasBookings возвращается, когда у события уже есть бронирования
	ErrEventHasBookings = errors.New("generate_slots: event already has bookings")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_slots: internal error")
)
