package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	eventRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/event"
)

// UseCase use case получения слотов события с занятостью
type UseCase struct {
	eventRepo   EventRepository
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	eventRepo EventRepository,
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		eventRepo:   eventRepo,
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Execute возвращает слоты события и их текущую занятость.
// Занятость всегда пересчитывается из БД, без кэша.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	event, err := uc.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, eventRepo.ErrEventNotFound) {
			uc.logger.Warn("GetAvailableSlots: event id=%d not found", req.EventID)
			return nil, ErrEventNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get event id=%d: %v", req.EventID, err)
		return nil, fmt.Errorf("%w: failed to get event: %v", ErrInternal, err)
	}

	if !event.IsActive {
		uc.logger.Warn("GetAvailableSlots: event id=%d is not active", req.EventID)
		return nil, ErrEventNotFound
	}

	slots, err := uc.slotRepo.ListByEvent(ctx, event.ID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots for event id=%d: %v", event.ID, err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	occupied, err := uc.bookingRepo.CountOccupyingByEvent(ctx, event.ID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to count bookings for event id=%d: %v", event.ID, err)
		return nil, fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
	}

	return &Response{
		EventID:  event.ID,
		Bookable: event.IsBookable(),
		Slots:    buildAvailability(slots, occupied),
	}, nil
}
