package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/booking"
	eventRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/event"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями агента
type Service struct {
	bookingRepo BookingRepository
	eventRepo   EventRepository
	exporter    Exporter
	metrics     Metrics
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	eventRepo EventRepository,
	exporter Exporter,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		eventRepo:   eventRepo,
		exporter:    exporter,
		metrics:     metrics,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID вместе с клиентом и слотом.
// Агент видит только бронирования своих событий, администратор любые.
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for agent=%d", id, actor.AgentID)

	details, err := s.bookingRepo.GetDetails(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !actor.CanManage(details.Booking.AgentID) {
		s.logger.Warn("GetByID: access denied for agent=%d to booking id=%d", actor.AgentID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainDetails(details), nil
}

// UpdateStatus переводит бронирование в completed или no_show
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	status, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	switch status {
	case domain.StatusCompleted:
		return s.MarkCompleted(ctx, bookingID, req.Actor)
	case domain.StatusNoShow:
		return s.MarkNoShow(ctx, bookingID, req.Actor)
	default:
		s.logger.Warn("UpdateStatus: status=%s is not allowed here for booking id=%d", status, bookingID)
		return nil, fmt.Errorf("%w: status must be completed or no_show", ErrInvalidInput)
	}
}

// MarkCompleted отмечает визит состоявшимся. Повторный вызов ничего не меняет.
func (s *Service) MarkCompleted(ctx context.Context, bookingID int64, actor domain.Actor) (*models.BookingResponse, error) {
	return s.transition(ctx, "MarkCompleted", bookingID, actor, domain.StatusCompleted, "")
}

// MarkNoShow отмечает неявку клиента. Место в слоте остаётся занятым.
func (s *Service) MarkNoShow(ctx context.Context, bookingID int64, actor domain.Actor) (*models.BookingResponse, error) {
	return s.transition(ctx, "MarkNoShow", bookingID, actor, domain.StatusNoShow, "")
}

// Cancel отменяет бронирование от имени агента и освобождает место
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = domain.DefaultCancellationReason
	}
	if utf8.RuneCountInString(reason) > domain.MaxCancellationReasonLength {
		s.logger.Warn("Cancel: reason too long for booking id=%d", bookingID)
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	return s.transition(ctx, "Cancel", bookingID, req.Actor, domain.StatusCancelled, reason)
}

// ListEventBookings возвращает бронирования события, отсортированные по началу слота
func (s *Service) ListEventBookings(ctx context.Context, req *models.ListEventBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListEventBookings: event=%d, agent=%d, status=%v, includeCancelled=%t",
		req.EventID, req.Actor.AgentID, req.Status, req.IncludeCancelled)

	_, details, err := s.listEventBookings(ctx, "ListEventBookings", req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ListEventBookings: fetched %d bookings for event=%d", len(details), req.EventID)
	return models.FromDomainDetailsList(details), nil
}

// ExportEventBookings выгружает бронирования события в xlsx
func (s *Service) ExportEventBookings(ctx context.Context, req *models.ListEventBookingsRequest) ([]byte, error) {
	event, details, err := s.listEventBookings(ctx, "ExportEventBookings", req)
	if err != nil {
		return nil, err
	}

	data, err := s.exporter.EventBookings(event, details)
	if err != nil {
		s.logger.Error("ExportEventBookings: failed to build workbook for event=%d: %v", req.EventID, err)
		return nil, fmt.Errorf("%w: ExportEventBookings - export error: %v", ErrInternal, err)
	}

	s.logger.Info("ExportEventBookings: exported %d bookings for event=%d", len(details), req.EventID)
	return data, nil
}

// Вспомогательные методы

func (s *Service) transition(
	ctx context.Context,
	op string,
	bookingID int64,
	actor domain.Actor,
	to domain.BookingStatus,
	reason string,
) (*models.BookingResponse, error) {
	s.logger.Info("%s: booking id=%d by agent=%d", op, bookingID, actor.AgentID)

	booking, err := s.getBooking(ctx, op, bookingID)
	if err != nil {
		return nil, err
	}

	if !actor.CanManage(booking.AgentID) {
		s.logger.Warn("%s: access denied for agent=%d to booking id=%d", op, actor.AgentID, bookingID)
		return nil, ErrAccessDenied
	}

	changed, err := booking.CheckTransition(to)
	if err != nil {
		s.logger.Warn("%s: booking id=%d cannot move from %s to %s", op, bookingID, booking.Status, to)
		return nil, ErrInvalidTransition
	}

	if changed {
		err = s.bookingRepo.Transition(ctx, bookingID, booking.Status, to, reason)
		switch {
		case errors.Is(err, bookingRepo.ErrStatusConflict):
			// Статус изменился между чтением и обновлением
			if err := s.resolveConflict(ctx, op, bookingID, to); err != nil {
				return nil, err
			}
		case err != nil:
			s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
			return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		default:
			s.metrics.IncTransition(string(to))
			s.logger.Info("%s: booking id=%d moved from %s to %s", op, bookingID, booking.Status, to)
		}
	}

	details, err := s.bookingRepo.GetDetails(ctx, bookingID)
	if err != nil {
		s.logger.Error("%s: failed to reload booking id=%d: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - reload error: %v", ErrInternal, op, err)
	}

	return models.FromDomainDetails(details), nil
}

// resolveConflict перечитывает бронирование после неудачного условного обновления.
// Параллельное завершение визита считается успехом, остальное недопустимым переходом.
func (s *Service) resolveConflict(ctx context.Context, op string, bookingID int64, to domain.BookingStatus) error {
	current, err := s.getBooking(ctx, op, bookingID)
	if err != nil {
		return err
	}

	changed, err := current.CheckTransition(to)
	if err != nil {
		s.logger.Warn("%s: booking id=%d changed concurrently to %s", op, bookingID, current.Status)
		return ErrInvalidTransition
	}
	if changed {
		s.logger.Error("%s: conditional update of booking id=%d matched no rows in status %s", op, bookingID, current.Status)
		return fmt.Errorf("%w: %s - status conflict not resolved", ErrInternal, op)
	}

	return nil
}

func (s *Service) getBooking(ctx context.Context, op string, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) listEventBookings(
	ctx context.Context,
	op string,
	req *models.ListEventBookingsRequest,
) (*domain.OpenHouseEvent, []*domain.BookingDetails, error) {
	if req.EventID <= 0 {
		return nil, nil, fmt.Errorf("%w: eventId must be positive", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("%s: invalid filter for event=%d: %v", op, req.EventID, err)
		return nil, nil, fmt.Errorf("%w: invalid status filter", ErrInvalidInput)
	}

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, eventRepo.ErrEventNotFound) {
			s.logger.Warn("%s: event id=%d not found", op, req.EventID)
			return nil, nil, ErrEventNotFound
		}
		s.logger.Error("%s: failed to get event id=%d: %v", op, req.EventID, err)
		return nil, nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if !req.Actor.CanManage(event.AgentID) {
		s.logger.Warn("%s: access denied for agent=%d to event id=%d", op, req.Actor.AgentID, req.EventID)
		return nil, nil, ErrAccessDenied
	}

	details, err := s.bookingRepo.ListDetails(ctx, filter)
	if err != nil {
		s.logger.Error("%s: repository error for event=%d: %v", op, req.EventID, err)
		return nil, nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	return event, details, nil
}
