package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	eventRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/event"
	slotRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/slot"
)

// Исходы допуска для метрик
const (
	outcomeAdmitted = "admitted"
	outcomeFull     = "full"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// UseCase use case для создания бронирования
type UseCase struct {
	eventRepo   EventRepository
	slotRepo    SlotRepository
	clientRepo  ClientRepository
	bookingRepo BookingRepository
	txManager   TransactionManager
	notifier    Notifier
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	eventRepo EventRepository,
	slotRepo SlotRepository,
	clientRepo ClientRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		eventRepo:   eventRepo,
		slotRepo:    slotRepo,
		clientRepo:  clientRepo,
		bookingRepo: bookingRepo,
		txManager:   txManager,
		notifier:    notifier,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка занятости и вставка выполняются в сериализуемой транзакции
// под блокировкой строки слота, поэтому параллельные запросы на один слот
// не могут превысить его вместимость.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: event=%d, slot=%d, email=%s", req.EventID, req.SlotID, req.Client.Email)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.IncAdmission(outcomeRejected)
		return nil, err
	}

	// 2. Получаем событие
	event, err := uc.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, eventRepo.ErrEventNotFound) {
			uc.logger.Warn("CreateBooking: event id=%d not found", req.EventID)
			uc.metrics.IncAdmission(outcomeRejected)
			return nil, ErrEventNotFound
		}
		uc.logger.Error("CreateBooking: failed to get event id=%d: %v", req.EventID, err)
		uc.metrics.IncAdmission(outcomeError)
		return nil, fmt.Errorf("%w: failed to get event: %v", ErrInternal, err)
	}

	if !event.IsBookable() {
		uc.logger.Warn("CreateBooking: event id=%d is not bookable (status=%s, active=%t)",
			event.ID, event.Status, event.IsActive)
		uc.metrics.IncAdmission(outcomeRejected)
		return nil, ErrEventInactive
	}

	// 3. Upsert клиента по email. Выполняется вне транзакции допуска:
	// контакты сохраняются, даже если слот окажется занят.
	client, err := uc.clientRepo.Upsert(ctx, normalizeClient(req.Client, req.PrivacyAccepted))
	if err != nil {
		uc.logger.Error("CreateBooking: failed to upsert client %s: %v", req.Client.Email, err)
		uc.metrics.IncAdmission(outcomeError)
		return nil, fmt.Errorf("%w: failed to upsert client: %v", ErrInternal, err)
	}

	var (
		created  *domain.Booking
		slot     *domain.TimeSlot
		occupied int
	)

	// 4. Допуск в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Блокируем слот (FOR UPDATE)
		s, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateBooking: slot id=%d not found", req.SlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("CreateBooking: failed to lock slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to lock slot: %w", ErrInternal, err)
		}

		if s.EventID != event.ID {
			uc.logger.Warn("CreateBooking: slot id=%d belongs to event id=%d, not %d", s.ID, s.EventID, event.ID)
			return ErrSlotNotFound
		}

		// 4.2. Пересчитываем занятость под блокировкой
		count, err := uc.bookingRepo.CountOccupying(txCtx, s.ID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count bookings for slot id=%d: %v", s.ID, err)
			return fmt.Errorf("%w: failed to count bookings: %w", ErrInternal, err)
		}

		if count >= s.Capacity {
			uc.logger.Warn("CreateBooking: slot id=%d is full, %d/%d places taken", s.ID, count, s.Capacity)
			return ErrSlotFull
		}

		// 4.3. Создаём бронирование
		booking, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			EventID:  event.ID,
			SlotID:   s.ID,
			ClientID: client.ID,
			AgentID:  event.AgentID,
			Status:   domain.StatusConfirmed,
			Message:  normalizeMessage(req.Client.Message),
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		created = booking
		slot = s
		occupied = count + 1
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrSlotFull):
			uc.metrics.IncAdmission(outcomeFull)
		case errors.Is(err, ErrSlotNotFound):
			uc.metrics.IncAdmission(outcomeRejected)
		default:
			uc.metrics.IncAdmission(outcomeError)
			if !errors.Is(err, ErrInternal) {
				err = fmt.Errorf("%w: admission transaction: %v", ErrInternal, err)
			}
		}
		return nil, err
	}

	uc.metrics.IncAdmission(outcomeAdmitted)
	uc.logger.Info("CreateBooking: booking id=%d admitted to slot id=%d (%d/%d)",
		created.ID, slot.ID, occupied, slot.Capacity)

	// 5. Уведомления ставятся в очередь после коммита; ошибка очереди не отменяет бронирование
	for _, kind := range []domain.NotificationKind{
		domain.NotificationClientConfirmation,
		domain.NotificationAgentNotification,
	} {
		if err := uc.notifier.Enqueue(ctx, created.ID, kind); err != nil {
			uc.logger.Error("CreateBooking: failed to enqueue %s for booking id=%d: %v", kind, created.ID, err)
		}
	}

	return &Response{
		Booking:      created,
		Client:       client,
		Slot:         slot,
		Availability: domain.NewSlotAvailability(occupied, slot.Capacity),
	}, nil
}
