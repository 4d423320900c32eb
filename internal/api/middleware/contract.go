package middleware

import "time"

// HTTPMetrics метрики HTTP запросов
type HTTPMetrics interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
