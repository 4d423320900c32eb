package notifications

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("notifications.service: booking not found")

	// ErrNotConnected возвращается, когда агент не подключил аккаунт Google
	ErrNotConnected = errors.New("notifications.service: agent google account not connected")

	// ErrInvalidInput возвращается при неизвестном типе уведомления
	ErrInvalidInput = errors.New("notifications.service: invalid input")

	// ErrUpstream возвращается при ошибке Gmail или Google Calendar
	ErrUpstream = errors.New("notifications.service: upstream notification error")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("notifications.service: internal error")
)

// PermanentErrors ошибки, после которых повторять доставку бессмысленно
var PermanentErrors = []error{ErrBookingNotFound, ErrNotConnected, ErrInvalidInput}
