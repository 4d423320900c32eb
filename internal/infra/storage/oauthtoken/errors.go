package oauthtoken

import "errors"

var (
	// ErrTokenNotFound возвращается, когда у агента нет сохранённого токена
	ErrTokenNotFound = errors.New("oauthtoken.repository: token not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("oauthtoken.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("oauthtoken.repository: failed to execute query")
)
