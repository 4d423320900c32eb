package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrEventNotFound возвращается, когда событие не найдено
	ErrEventNotFound = errors.New("create_booking: event not found")

	// ErrEventInactive возвращается, когда событие не опубликовано или неактивно
	ErrEventInactive = errors.New("create_booking: event is not open for booking")

	// ErrSlotNotFound возвращается, когда слот не найден или относится к другому событию
	ErrSlotNotFound = errors.New("create_booking: slot not found")

	// ErrSlotFull возвращается, когда все места в слоте заняты
	ErrSlotFull = errors.New("create_booking: slot is full")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
