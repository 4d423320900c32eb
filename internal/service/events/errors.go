package events

import "errors"

var (
	// ErrEventNotFound возвращается, когда событие не найдено или неактивно
	ErrEventNotFound = errors.New("events.service: event not found")

	// ErrPropertyNotFound возвращается, когда объект не найден
	ErrPropertyNotFound = errors.New("events.service: property not found")

	// ErrAccessDenied возвращается, когда объект или событие принадлежит другому агенту
	ErrAccessDenied = errors.New("events.service: access denied")

	// ErrInvalidTransition возвращается при недопустимой смене статуса события
	ErrInvalidTransition = errors.New("events.service: invalid status transition")

	// ErrEventHasBookings возвращается при попытке перенастроить событие с бронированиями
	ErrEventHasBookings = errors.New("events.service: event already has bookings")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("events.service: invalid input data")

	// ErrInvalidTimeRange возвращается, когда окно события пустое
	ErrInvalidTimeRange = errors.New("events.service: invalid time range")

	// ErrInvalidEventDate возвращается для даты в прошлом
	ErrInvalidEventDate = errors.New("events.service: invalid event date")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("events.service: internal error")
)
