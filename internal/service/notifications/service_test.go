package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-OpenHouseService/internal/integrations/google"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/googleauth"
	"github.com/m04kA/SMC-OpenHouseService/pkg/logger"
	"github.com/m04kA/SMC-OpenHouseService/pkg/ptr"
)

type fakeBookingRepo struct {
	details map[int64]*domain.BookingDetails
	markErr error
}

func (r *fakeBookingRepo) GetDetails(_ context.Context, id int64) (*domain.BookingDetails, error) {
	d, ok := r.details[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *fakeBookingRepo) MarkNotificationSent(_ context.Context, id int64, kind domain.NotificationKind) error {
	if r.markErr != nil {
		return r.markErr
	}
	b := &r.details[id].Booking
	switch kind {
	case domain.NotificationClientConfirmation:
		b.ConfirmationEmailSent = true
	case domain.NotificationAgentNotification:
		b.AgentNotificationSent = true
	case domain.NotificationBrochure:
		b.BrochureEmailSent = true
	}
	return nil
}

func (r *fakeBookingRepo) SetCalendarEvent(_ context.Context, id int64, eventID, link string) error {
	b := &r.details[id].Booking
	b.CalendarEventID = &eventID
	b.CalendarEventLink = &link
	return nil
}

type fakeTokens struct {
	connected map[int64]bool
}

func (f *fakeTokens) TokenSource(_ context.Context, agentID int64) (oauth2.TokenSource, error) {
	if !f.connected[agentID] {
		return nil, googleauth.ErrNotConnected
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "token"}), nil
}

type fakeMailer struct {
	sent []google.Email
	err  error
}

func (m *fakeMailer) SendEmail(_ context.Context, _ oauth2.TokenSource, email google.Email) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, email)
	return "msg-1", nil
}

type fakeCalendar struct {
	created []google.OpenHouseEventData
	err     error
}

func (c *fakeCalendar) CreateOpenHouseEvent(_ context.Context, _ oauth2.TokenSource, data google.OpenHouseEventData) (*google.CalendarEvent, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.created = append(c.created, data)
	return &google.CalendarEvent{ID: "evt-1", Link: "https://calendar.google.com/event?eid=evt-1"}, nil
}

type testEnv struct {
	svc      *Service
	repo     *fakeBookingRepo
	tokens   *fakeTokens
	mailer   *fakeMailer
	calendar *fakeCalendar
}

func newDetails() *domain.BookingDetails {
	return &domain.BookingDetails{
		Booking: domain.Booking{
			ID: 42, EventID: 1, SlotID: 11, ClientID: 3, AgentID: 7,
			Status:  domain.StatusConfirmed,
			Message: ptr.Ptr("<b>Vorrei vedere la cantina</b>"),
		},
		Client: domain.Client{ID: 3, Email: "mario.rossi@example.com", FirstName: "Mario", LastName: "Rossi", Phone: "+39 333 1234567"},
		Slot:   domain.TimeSlot{ID: 11, EventID: 1, StartTime: "10:00", EndTime: "10:20", Capacity: 4},
		Event: domain.OpenHouseEvent{
			ID: 1, PropertyID: 5, AgentID: 7,
			EventDate: time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC),
			Status:    domain.EventStatusPublished, IsActive: true,
		},
		Property: domain.Property{ID: 5, AgentID: 7, Title: "Bilocale Brera", Address: "Via Solferino 3", City: "Milano"},
		Agent:    domain.Agent{ID: 7, Email: "giulia.bianchi@ghergo.it", FirstName: "Giulia", LastName: "Bianchi", Role: domain.RoleAgent},
	}
}

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:     &fakeBookingRepo{details: map[int64]*domain.BookingDetails{42: newDetails()}},
		tokens:   &fakeTokens{connected: map[int64]bool{7: true}},
		mailer:   &fakeMailer{},
		calendar: &fakeCalendar{},
	}
	env.svc = NewService(env.repo, env.tokens, env.mailer, env.calendar,
		"https://forms.gle/questionario", "https://openhouse.example.com/dashboard/bookings", logger.Nop())
	return env
}

func TestNotify_ClientConfirmation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.svc.Notify(ctx, 42, domain.NotificationClientConfirmation))

	require.Len(t, env.mailer.sent, 1)
	email := env.mailer.sent[0]
	assert.Equal(t, "mario.rossi@example.com", email.To)
	assert.Equal(t, "Conferma prenotazione Open House - Bilocale Brera", email.Subject)
	assert.Contains(t, email.HTML, "domenica 25 ottobre 2026")
	assert.Contains(t, email.HTML, "10:00 - 10:20")
	assert.Contains(t, email.HTML, "https://forms.gle/questionario")
	assert.Contains(t, email.HTML, "Giulia Bianchi")

	require.Len(t, env.calendar.created, 1)
	event := env.calendar.created[0]
	assert.Equal(t, "Open House - Bilocale Brera", event.Summary)
	assert.Equal(t, "2026-10-25", event.Date)
	assert.Equal(t, "Via Solferino 3, Milano", event.Location)
	require.Len(t, event.Attendees, 1)
	assert.Equal(t, "mario.rossi@example.com", event.Attendees[0].Email)

	stored := env.repo.details[42].Booking
	assert.True(t, stored.ConfirmationEmailSent)
	assert.Equal(t, "evt-1", *stored.CalendarEventID)

	// Повторная доставка ничего не отправляет
	require.NoError(t, env.svc.Notify(ctx, 42, domain.NotificationClientConfirmation))
	assert.Len(t, env.mailer.sent, 1)
	assert.Len(t, env.calendar.created, 1)
}

func TestNotify_CalendarFailureRetriesOnlyCalendar(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.calendar.err = errors.New("calendar quota exceeded")
	err := env.svc.Notify(ctx, 42, domain.NotificationClientConfirmation)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.True(t, env.repo.details[42].Booking.ConfirmationEmailSent)
	assert.Equal(t, domain.StatusConfirmed, env.repo.details[42].Booking.Status)

	env.calendar.err = nil
	require.NoError(t, env.svc.Notify(ctx, 42, domain.NotificationClientConfirmation))
	assert.Len(t, env.mailer.sent, 1)
	assert.Len(t, env.calendar.created, 1)
}

func TestNotify_AgentNotification(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.svc.Notify(context.Background(), 42, domain.NotificationAgentNotification))

	require.Len(t, env.mailer.sent, 1)
	email := env.mailer.sent[0]
	assert.Equal(t, "giulia.bianchi@ghergo.it", email.To)
	assert.Equal(t, "Nuova prenotazione Open House - Bilocale Brera", email.Subject)
	assert.Contains(t, email.HTML, "Mario Rossi")
	assert.Contains(t, email.HTML, "https://openhouse.example.com/dashboard/bookings")
	assert.Contains(t, email.HTML, "&lt;b&gt;Vorrei vedere la cantina&lt;/b&gt;")
	assert.NotContains(t, email.HTML, "<b>Vorrei")

	assert.True(t, env.repo.details[42].Booking.AgentNotificationSent)
	assert.Empty(t, env.calendar.created)
}

func TestNotify_Brochure(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// Без брошюры отправлять нечего
	require.NoError(t, env.svc.Notify(ctx, 42, domain.NotificationBrochure))
	assert.Empty(t, env.mailer.sent)

	env.repo.details[42].Property.BrochureURL = ptr.Ptr("https://example.com/brera.pdf")
	require.NoError(t, env.svc.Notify(ctx, 42, domain.NotificationBrochure))

	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "Brochure - Bilocale Brera", env.mailer.sent[0].Subject)
	assert.Contains(t, env.mailer.sent[0].HTML, "https://example.com/brera.pdf")
	assert.True(t, env.repo.details[42].Booking.BrochureEmailSent)

	require.NoError(t, env.svc.Notify(ctx, 42, domain.NotificationBrochure))
	assert.Len(t, env.mailer.sent, 1)
}

func TestNotify_Errors(t *testing.T) {
	t.Run("unknown kind", func(t *testing.T) {
		env := newTestEnv()
		assert.ErrorIs(t, env.svc.Notify(context.Background(), 42, "sms"), ErrInvalidInput)
	})

	t.Run("booking not found", func(t *testing.T) {
		env := newTestEnv()
		assert.ErrorIs(t, env.svc.Notify(context.Background(), 404, domain.NotificationAgentNotification), ErrBookingNotFound)
	})

	t.Run("agent not connected", func(t *testing.T) {
		env := newTestEnv()
		env.tokens.connected = map[int64]bool{}
		assert.ErrorIs(t, env.svc.Notify(context.Background(), 42, domain.NotificationAgentNotification), ErrNotConnected)
		assert.Empty(t, env.mailer.sent)
	})

	t.Run("gmail failure", func(t *testing.T) {
		env := newTestEnv()
		env.mailer.err = errors.New("503 backend error")
		assert.ErrorIs(t, env.svc.Notify(context.Background(), 42, domain.NotificationAgentNotification), ErrUpstream)
		assert.False(t, env.repo.details[42].Booking.AgentNotificationSent)
	})

	t.Run("flag not saved", func(t *testing.T) {
		env := newTestEnv()
		env.repo.markErr = errors.New("connection reset")
		assert.ErrorIs(t, env.svc.Notify(context.Background(), 42, domain.NotificationAgentNotification), ErrInternal)
	})
}

func TestNotify_SkipsCancelledBooking(t *testing.T) {
	env := newTestEnv()
	env.repo.details[42].Booking.Status = domain.StatusCancelled

	require.NoError(t, env.svc.Notify(context.Background(), 42, domain.NotificationClientConfirmation))
	assert.Empty(t, env.mailer.sent)
	assert.Empty(t, env.calendar.created)
}

func TestFormatItalianDate(t *testing.T) {
	assert.Equal(t, "sabato 1 marzo 2025", formatItalianDate(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "mercoledì 15 ottobre 2025", formatItalianDate(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)))
}

func TestPermanentErrors(t *testing.T) {
	for _, target := range []error{ErrBookingNotFound, ErrNotConnected, ErrInvalidInput} {
		assert.Contains(t, PermanentErrors, target)
	}
	assert.NotContains(t, PermanentErrors, ErrUpstream)
}
