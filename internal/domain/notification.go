package domain

// NotificationKind identifies which notification to send for a booking
type NotificationKind string

const (
	NotificationClientConfirmation NotificationKind = "client_confirmation"
	NotificationAgentNotification  NotificationKind = "agent_notification"
	NotificationBrochure           NotificationKind = "brochure"
)

// IsValid returns true for known kinds
func (k NotificationKind) IsValid() bool {
	switch k {
	case NotificationClientConfirmation, NotificationAgentNotification, NotificationBrochure:
		return true
	}
	return false
}

// BookingDetails is a booking joined with everything needed to notify about it
type BookingDetails struct {
	Booking  Booking
	Client   Client
	Slot     TimeSlot
	Event    OpenHouseEvent
	Property Property
	Agent    Agent
}

// IsDelivered returns true if the notification of the given kind was already sent
func (d *BookingDetails) IsDelivered(kind NotificationKind) bool {
	switch kind {
	case NotificationClientConfirmation:
		return d.Booking.ConfirmationEmailSent && d.Booking.HasCalendarEvent()
	case NotificationAgentNotification:
		return d.Booking.AgentNotificationSent
	case NotificationBrochure:
		return d.Booking.BrochureEmailSent
	}
	return false
}

// PendingNotifications lists the notifications still owed for a confirmed booking.
// The brochure is owed only once the questionnaire is completed.
func (b *Booking) PendingNotifications() []NotificationKind {
	if b.Status != StatusConfirmed {
		return nil
	}
	var kinds []NotificationKind
	if !b.ConfirmationEmailSent || !b.HasCalendarEvent() {
		kinds = append(kinds, NotificationClientConfirmation)
	}
	if !b.AgentNotificationSent {
		kinds = append(kinds, NotificationAgentNotification)
	}
	if b.QuestionnaireCompleted && !b.BrochureEmailSent {
		kinds = append(kinds, NotificationBrochure)
	}
	return kinds
}
