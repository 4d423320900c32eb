package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	timeLayout     = "15:04"
	minutesPerDay  = 24 * 60
	minutesPerHour = 60
)

var (
	// ErrInvalidFormat возвращается, когда строка не соответствует формату HH:MM
	ErrInvalidFormat = errors.New("invalid time string format")

	// ErrOutOfDay возвращается, когда результат арифметики выходит за пределы суток
	ErrOutOfDay = errors.New("time string out of day range")
)

// TimeString время суток в формате "HH:MM".
// Пустая строка означает отсутствие значения.
type TimeString string

// NewTimeString создаёт TimeString из time.Time (берутся только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит строку "HH:MM" или "HH:MM:SS" (секунды отбрасываются)
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)
	if len(s) == len("15:04:05") {
		s = s[:len(timeLayout)]
	}

	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// FromMinutes создаёт TimeString из количества минут от полуночи
func FromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= minutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrOutOfDay, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/minutesPerHour, minutes%minutesPerHour)), nil
}

// Validate проверяет формат HH:MM
func (t TimeString) Validate() error {
	_, err := t.Minutes()
	return err
}

// Minutes возвращает количество минут от полуночи
func (t TimeString) Minutes() (int, error) {
	s := string(t)
	if len(s) != len(timeLayout) || s[2] != ':' {
		return 0, ErrInvalidFormat
	}

	hours, err := strconv.Atoi(s[:2])
	if err != nil || hours < 0 || hours > 23 {
		return 0, ErrInvalidFormat
	}
	minutes, err := strconv.Atoi(s[3:])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, ErrInvalidFormat
	}

	return hours*minutesPerHour + minutes, nil
}

// AddMinutes возвращает время, сдвинутое на n минут.
// Переход через полночь считается ошибкой.
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	m, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return FromMinutes(m + n)
}

// IsBefore возвращает true, если t строго раньше other.
// Невалидные значения не сравниваются.
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	return errA == nil && errB == nil && a < b
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return other.IsBefore(t)
}

// IsZero возвращает true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

func (t TimeString) String() string {
	return string(t)
}

// On возвращает момент времени на указанную дату в указанной локации
func (t TimeString) On(date time.Time, loc *time.Location) (time.Time, error) {
	m, err := t.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	y, mon, d := date.Date()
	return time.Date(y, mon, d, m/minutesPerHour, m%minutesPerHour, 0, 0, loc), nil
}

// Scan реализует sql.Scanner.
// lib/pq возвращает колонки типа TIME как time.Time или как текст.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidFormat, src)
	}
}

func (t *TimeString) scanString(s string) error {
	// "10:00:00", "10:00:00.000000", "10:00:00+01"
	if len(s) > len("15:04:05") {
		s = s[:len("15:04:05")]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}
