package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrStatusConflict возвращается, когда условное обновление статуса не затронуло строк
	// (бронирование уже не в исходном статусе)
	ErrStatusConflict = errors.New("booking.repository: booking status changed concurrently")

	// ErrUnknownNotification возвращается для неизвестного типа уведомления
	ErrUnknownNotification = errors.New("booking.repository: unknown notification kind")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
