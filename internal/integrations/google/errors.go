package google

import "errors"

var (
	// ErrExchange возвращается, когда Google не обменял код авторизации на токен
	ErrExchange = errors.New("google client: failed to exchange authorization code")

	// ErrSendEmail возвращается при ошибке отправки письма через Gmail API
	ErrSendEmail = errors.New("google client: failed to send email")

	// ErrCreateEvent возвращается при ошибке создания события в календаре
	ErrCreateEvent = errors.New("google client: failed to create calendar event")

	// ErrInvalidInput возвращается при неполных данных письма или события
	ErrInvalidInput = errors.New("google client: invalid input")
)
