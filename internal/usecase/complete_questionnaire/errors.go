package complete_questionnaire

import "errors"

var (
	// ErrInvalidInput возвращается при некорректном email
	ErrInvalidInput = errors.New("complete_questionnaire: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("complete_questionnaire: internal error")
)
