package generate_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	eventRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/event"
)

// UseCase use case перегенерации слотов события
type UseCase struct {
	eventRepo   EventRepository
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	eventRepo EventRepository,
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		eventRepo:   eventRepo,
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute удаляет слоты события и создаёт их заново по окну и длительности события.
// Всё выполняется в одной транзакции; строка события блокируется.
// Если по событию уже есть бронирования, перегенерация запрещена.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GenerateSlots: event=%d, actor=%d", req.EventID, req.Actor.AgentID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GenerateSlots: validation failed: %v", err)
		return nil, err
	}

	var result []*domain.TimeSlot

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Загружаем событие с блокировкой
		event, err := uc.eventRepo.GetByID(txCtx, req.EventID)
		if err != nil {
			if errors.Is(err, eventRepo.ErrEventNotFound) {
				uc.logger.Warn("GenerateSlots: event id=%d not found", req.EventID)
				return ErrEventNotFound
			}
			uc.logger.Error("GenerateSlots: failed to get event id=%d: %v", req.EventID, err)
			return fmt.Errorf("%w: failed to get event: %v", ErrInternal, err)
		}

		// 2. Проверяем права
		if !req.Actor.CanManage(event.AgentID) {
			uc.logger.Warn("GenerateSlots: actor=%d cannot manage event id=%d (owner=%d)",
				req.Actor.AgentID, event.ID, event.AgentID)
			return ErrAccessDenied
		}

		// 3. Бронирования ссылаются на слоты, поэтому перегенерация возможна только без них
		count, err := uc.bookingRepo.CountByEvent(txCtx, event.ID)
		if err != nil {
			uc.logger.Error("GenerateSlots: failed to count bookings for event id=%d: %v", event.ID, err)
			return fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
		}
		if count > 0 {
			uc.logger.Warn("GenerateSlots: event id=%d already has %d bookings", event.ID, count)
			return ErrEventHasBookings
		}

		// 4. Удаляем старые слоты
		deleted, err := uc.slotRepo.DeleteByEvent(txCtx, event.ID)
		if err != nil {
			uc.logger.Error("GenerateSlots: failed to delete slots for event id=%d: %v", event.ID, err)
			return fmt.Errorf("%w: failed to delete slots: %v", ErrInternal, err)
		}

		// 5. Генерируем и сохраняем новые
		specs := GenerateSlots(event.StartTime, event.EndTime, event.SlotDuration, event.MaxParticipants)
		created, err := uc.slotRepo.CreateBatch(txCtx, event.ID, specs)
		if err != nil {
			uc.logger.Error("GenerateSlots: failed to create slots for event id=%d: %v", event.ID, err)
			return fmt.Errorf("%w: failed to create slots: %v", ErrInternal, err)
		}

		uc.logger.Info("GenerateSlots: event id=%d, deleted=%d, created=%d (window %s-%s, duration=%d)",
			event.ID, deleted, len(created), event.StartTime, event.EndTime, event.SlotDuration)

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	return &Response{
		SlotsCreated: len(result),
		Slots:        result,
	}, nil
}
