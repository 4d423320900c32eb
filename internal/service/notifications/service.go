package notifications

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-OpenHouseService/internal/integrations/google"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/googleauth"
)

// Service доставляет уведомления по бронированиям: письма клиенту и агенту,
// событие в календаре агента и брошюру после анкеты.
// Повторный вызов для уже доставленного уведомления ничего не делает.
type Service struct {
	bookingRepo      BookingRepository
	tokens           TokenProvider
	mailer           EmailSender
	calendar         CalendarClient
	questionnaireURL string
	dashboardURL     string
	logger           Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(
	bookingRepo BookingRepository,
	tokens TokenProvider,
	mailer EmailSender,
	calendar CalendarClient,
	questionnaireURL string,
	dashboardURL string,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:      bookingRepo,
		tokens:           tokens,
		mailer:           mailer,
		calendar:         calendar,
		questionnaireURL: questionnaireURL,
		dashboardURL:     dashboardURL,
		logger:           logger,
	}
}

// Notify доставляет уведомление заданного типа.
// Ошибки Gmail и Calendar возвращаются как ErrUpstream и статус бронирования не меняют.
func (s *Service) Notify(ctx context.Context, bookingID int64, kind domain.NotificationKind) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: unknown notification kind %q", ErrInvalidInput, kind)
	}

	details, err := s.bookingRepo.GetDetails(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Notify: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Notify: failed to load booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Notify - repository error: %v", ErrInternal, err)
	}

	if details.Booking.Status != domain.StatusConfirmed {
		s.logger.Info("Notify: skip %s for booking id=%d in status %s", kind, bookingID, details.Booking.Status)
		return nil
	}
	if details.IsDelivered(kind) {
		s.logger.Info("Notify: %s for booking id=%d already delivered", kind, bookingID)
		return nil
	}
	if kind == domain.NotificationBrochure && !details.Property.HasBrochure() {
		s.logger.Warn("Notify: property id=%d has no brochure, booking id=%d", details.Property.ID, bookingID)
		return nil
	}

	ts, err := s.tokens.TokenSource(ctx, details.Booking.AgentID)
	if err != nil {
		if errors.Is(err, googleauth.ErrNotConnected) {
			s.logger.Warn("Notify: agent=%d has not connected google, booking id=%d", details.Booking.AgentID, bookingID)
			return ErrNotConnected
		}
		s.logger.Error("Notify: failed to get token for agent=%d: %v", details.Booking.AgentID, err)
		return fmt.Errorf("%w: Notify - token error: %v", ErrInternal, err)
	}

	switch kind {
	case domain.NotificationClientConfirmation:
		return s.sendConfirmation(ctx, ts, details)
	case domain.NotificationAgentNotification:
		return s.sendEmail(ctx, ts, details, kind, s.agentEmail)
	default:
		return s.sendEmail(ctx, ts, details, kind, s.brochureEmail)
	}
}

// sendConfirmation отправляет письмо клиенту и создаёт событие в календаре.
// Каждый шаг отмечается отдельно, при повторе выполняется только недоделанный.
func (s *Service) sendConfirmation(ctx context.Context, ts oauth2.TokenSource, d *domain.BookingDetails) error {
	if !d.Booking.ConfirmationEmailSent {
		if err := s.sendEmail(ctx, ts, d, domain.NotificationClientConfirmation, s.confirmationEmail); err != nil {
			return err
		}
	}

	if d.Booking.HasCalendarEvent() {
		return nil
	}

	event, err := s.calendar.CreateOpenHouseEvent(ctx, ts, calendarEventData(d))
	if err != nil {
		s.logger.Error("sendConfirmation: calendar event failed for booking id=%d: %v", d.Booking.ID, err)
		return fmt.Errorf("%w: calendar: %v", ErrUpstream, err)
	}

	if err := s.bookingRepo.SetCalendarEvent(ctx, d.Booking.ID, event.ID, event.Link); err != nil {
		s.logger.Error("sendConfirmation: failed to save calendar event %s for booking id=%d: %v", event.ID, d.Booking.ID, err)
		return fmt.Errorf("%w: sendConfirmation - save calendar event: %v", ErrInternal, err)
	}

	s.logger.Info("sendConfirmation: calendar event %s created for booking id=%d", event.ID, d.Booking.ID)
	return nil
}

func (s *Service) sendEmail(
	ctx context.Context,
	ts oauth2.TokenSource,
	d *domain.BookingDetails,
	kind domain.NotificationKind,
	build func(*domain.BookingDetails) (google.Email, error),
) error {
	email, err := build(d)
	if err != nil {
		s.logger.Error("sendEmail: failed to build %s for booking id=%d: %v", kind, d.Booking.ID, err)
		return fmt.Errorf("%w: sendEmail - build: %v", ErrInternal, err)
	}

	messageID, err := s.mailer.SendEmail(ctx, ts, email)
	if err != nil {
		s.logger.Error("sendEmail: %s for booking id=%d failed: %v", kind, d.Booking.ID, err)
		return fmt.Errorf("%w: gmail: %v", ErrUpstream, err)
	}

	if err := s.bookingRepo.MarkNotificationSent(ctx, d.Booking.ID, kind); err != nil {
		s.logger.Error("sendEmail: %s sent as %s but flag not saved for booking id=%d: %v", kind, messageID, d.Booking.ID, err)
		return fmt.Errorf("%w: sendEmail - mark sent: %v", ErrInternal, err)
	}

	s.logger.Info("sendEmail: %s for booking id=%d sent to %s (message %s)", kind, d.Booking.ID, email.To, messageID)
	return nil
}
