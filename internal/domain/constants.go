package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultTimezone часовой пояс событий и календарных приглашений
const DefaultTimezone = "Europe/Rome"

// Business validation constants
const (
	MinParticipantsPerSlot      = 1
	MaxParticipantsPerSlot      = 50
	MaxMessageLength            = 1000
	MaxCancellationReasonLength = 500
	MaxNameLength               = 100
	MaxPhoneLength              = 30
)

// AllowedSlotDurations допустимые длительности слота в минутах
var AllowedSlotDurations = []int{15, 20, 30}

// IsAllowedSlotDuration проверяет, что длительность слота из разрешённого набора
func IsAllowedSlotDuration(minutes int) bool {
	for _, d := range AllowedSlotDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

// OccupyingStatuses статусы, которые занимают место в слоте.
// Только отмена освобождает место.
var OccupyingStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCompleted,
	StatusNoShow,
}
