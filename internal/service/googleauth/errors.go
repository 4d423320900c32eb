package googleauth

import "errors"

var (
	// ErrNotConnected возвращается, когда агент не подключил аккаунт Google
	ErrNotConnected = errors.New("googleauth.service: google account not connected")

	// ErrInvalidState возвращается при поддельном или просроченном state
	ErrInvalidState = errors.New("googleauth.service: invalid oauth state")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("googleauth.service: invalid input")

	// ErrUpstream возвращается, когда Google отклонил обмен кода
	ErrUpstream = errors.New("googleauth.service: google request failed")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("googleauth.service: internal error")
)
