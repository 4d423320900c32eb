package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger логгер поверх zerolog с printf-интерфейсом
type Logger struct {
	zl     zerolog.Logger
	closer io.Closer
}

// Options дополнительные параметры логгера
type Options struct {
	Format  string // json | console
	Service string
}

// New создаёт логгер.
// file пустой - вывод в stdout, иначе дописываем в файл.
// level: debug | info | warn | error (по умолчанию info).
func New(file, level string, opts ...Options) (*Logger, error) {
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}

	lvl := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil && parsed != zerolog.NoLevel {
		lvl = parsed
	}

	output := io.Writer(os.Stdout)
	var closer io.Closer

	if strings.TrimSpace(file) != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		output = f
		closer = f
	}

	return newWithWriter(output, closer, lvl, opt), nil
}

// NewWithWriter создаёт логгер, пишущий в произвольный writer (используется в тестах)
func NewWithWriter(w io.Writer, level string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return newWithWriter(w, nil, lvl, Options{})
}

// Nop логгер, который ничего не пишет
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func newWithWriter(w io.Writer, closer io.Closer, lvl zerolog.Level, opt Options) *Logger {
	if strings.EqualFold(strings.TrimSpace(opt.Format), "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(w).Level(lvl).With().Timestamp()
	if opt.Service != "" {
		ctx = ctx.Str("service", opt.Service)
	}

	return &Logger{zl: ctx.Logger(), closer: closer}
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}

// Fatal пишет сообщение и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.zl.Fatal().Msgf(format, v...)
}

// With возвращает дочерний логгер с дополнительным полем
func (l *Logger) With(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

// Zerolog возвращает базовый zerolog.Logger
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

// Close закрывает файл логов, если он был открыт
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
