package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	eventRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/event"
	propertyRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/property"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/events/models"
	generateSlots "github.com/m04kA/SMC-OpenHouseService/internal/usecase/generate_slots"
	"github.com/m04kA/SMC-OpenHouseService/pkg/types"
)

// publicListLimit максимум событий в публичном списке
const publicListLimit = 100

// Service сервис для работы с событиями open house
type Service struct {
	eventRepo    EventRepository
	propertyRepo PropertyRepository
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	loc          *time.Location
	now          func() time.Time
	logger       Logger
}

// NewService создает новый экземпляр сервиса событий.
// loc задаёт часовой пояс, в котором проверяется дата события.
func NewService(
	eventRepo EventRepository,
	propertyRepo PropertyRepository,
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	loc *time.Location,
	logger Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		eventRepo:    eventRepo,
		propertyRepo: propertyRepo,
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		loc:          loc,
		now:          time.Now,
		logger:       logger,
	}
}

// Create создает событие в статусе draft и сразу нарезает его окно на слоты.
// Агент создаёт события только для своих объектов, администратор для любых.
func (s *Service) Create(ctx context.Context, req *models.CreateEventRequest) (*models.EventResponse, error) {
	s.logger.Info("Create: creating event for property=%d on %s by agent=%d",
		req.PropertyID, req.EventDate, req.Actor.AgentID)

	// 1. Валидируем входные данные
	event, err := s.buildEvent(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем объект и права на него
	property, err := s.propertyRepo.GetByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, propertyRepo.ErrPropertyNotFound) {
			s.logger.Warn("Create: property id=%d not found", req.PropertyID)
			return nil, ErrPropertyNotFound
		}
		s.logger.Error("Create: failed to get property id=%d: %v", req.PropertyID, err)
		return nil, fmt.Errorf("%w: Create - failed to get property: %v", ErrInternal, err)
	}

	if !req.Actor.CanManage(property.AgentID) {
		s.logger.Warn("Create: agent=%d does not own property id=%d", req.Actor.AgentID, property.ID)
		return nil, ErrAccessDenied
	}

	// Событие принадлежит агенту объекта, даже если его создал администратор
	event.AgentID = property.AgentID

	// 3. Сохраняем событие и слоты в одной транзакции
	var (
		created *domain.OpenHouseEvent
		slots   []*domain.TimeSlot
	)

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err = s.eventRepo.Create(txCtx, event)
		if err != nil {
			s.logger.Error("Create: failed to create event for property=%d: %v", req.PropertyID, err)
			return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}

		slots, err = s.createSlots(txCtx, "Create", created)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Create: created event id=%d for property=%d with %d slots", created.ID, property.ID, len(slots))
	return models.FromDomainEvent(created).WithProperty(property).WithSlots(slots), nil
}

// Update меняет расписание, вместимость, заметку или активность события.
// Изменение окна, длительности или вместимости пересоздаёт слоты в той же транзакции.
// Расписание события с бронированиями менять нельзя.
func (s *Service) Update(ctx context.Context, eventID int64, req *models.UpdateEventRequest) (*models.EventResponse, error) {
	s.logger.Info("Update: event id=%d by agent=%d", eventID, req.Actor.AgentID)

	var (
		updated *domain.OpenHouseEvent
		slots   []*domain.TimeSlot
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Блокируем событие (FOR UPDATE)
		event, err := s.getEvent(txCtx, "Update", eventID)
		if err != nil {
			return err
		}

		if !req.Actor.CanManage(event.AgentID) {
			s.logger.Warn("Update: access denied for agent=%d to event id=%d", req.Actor.AgentID, eventID)
			return ErrAccessDenied
		}

		changes, err := s.applyUpdate(event, req)
		if err != nil {
			s.logger.Warn("Update: validation failed for event id=%d: %v", eventID, err)
			return err
		}

		if event.Status.IsTerminal() && (changes.schedule || (req.IsActive != nil && *req.IsActive)) {
			s.logger.Warn("Update: event id=%d is %s and cannot be changed", eventID, event.Status)
			return ErrInvalidTransition
		}

		if changes.schedule {
			count, err := s.bookingRepo.CountByEvent(txCtx, eventID)
			if err != nil {
				s.logger.Error("Update: failed to count bookings for event id=%d: %v", eventID, err)
				return fmt.Errorf("%w: Update - failed to count bookings: %v", ErrInternal, err)
			}
			if count > 0 {
				s.logger.Warn("Update: event id=%d already has %d bookings", eventID, count)
				return ErrEventHasBookings
			}
		}

		if err := s.eventRepo.Update(txCtx, event); err != nil {
			s.logger.Error("Update: failed to update event id=%d: %v", eventID, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		if changes.slots {
			deleted, err := s.slotRepo.DeleteByEvent(txCtx, eventID)
			if err != nil {
				s.logger.Error("Update: failed to delete slots for event id=%d: %v", eventID, err)
				return fmt.Errorf("%w: Update - failed to delete slots: %v", ErrInternal, err)
			}
			s.logger.Info("Update: deleted %d slots of event id=%d", deleted, eventID)

			slots, err = s.createSlots(txCtx, "Update", event)
			if err != nil {
				return err
			}
		}

		updated = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: event id=%d updated (slots regenerated=%t)", eventID, slots != nil)

	resp := models.FromDomainEvent(updated)
	if slots != nil {
		resp = resp.WithSlots(slots)
	}
	return resp, nil
}

// ListPublic возвращает активные опубликованные события, новые даты первыми.
// События неактивных объектов не показываются.
func (s *Service) ListPublic(ctx context.Context) (*models.EventListResponse, error) {
	events, err := s.eventRepo.List(ctx, eventRepo.ListFilter{
		OnlyActive: true,
		Statuses:   []domain.EventStatus{domain.EventStatusPublished},
		Limit:      publicListLimit,
	})
	if err != nil {
		s.logger.Error("ListPublic: failed to list events: %v", err)
		return nil, fmt.Errorf("%w: ListPublic - repository error: %v", ErrInternal, err)
	}

	resp, err := s.withProperties(ctx, "ListPublic", events, true)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ListPublic: fetched %d events", len(resp.Events))
	return resp, nil
}

// ListByAgent возвращает все события агента, включая черновики и неактивные
func (s *Service) ListByAgent(ctx context.Context, actor domain.Actor) (*models.EventListResponse, error) {
	s.logger.Info("ListByAgent: agent=%d", actor.AgentID)

	if actor.AgentID <= 0 {
		return nil, fmt.Errorf("%w: agent id must be positive", ErrInvalidInput)
	}

	agentID := actor.AgentID
	events, err := s.eventRepo.List(ctx, eventRepo.ListFilter{AgentID: &agentID})
	if err != nil {
		s.logger.Error("ListByAgent: failed to list events of agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: ListByAgent - repository error: %v", ErrInternal, err)
	}

	resp, err := s.withProperties(ctx, "ListByAgent", events, false)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ListByAgent: fetched %d events of agent=%d", len(resp.Events), agentID)
	return resp, nil
}

// GetPublic возвращает активное событие вместе со сводкой по объекту.
// Неактивные события скрыты от публики.
func (s *Service) GetPublic(ctx context.Context, eventID int64) (*models.EventResponse, error) {
	event, err := s.getEvent(ctx, "GetPublic", eventID)
	if err != nil {
		return nil, err
	}

	if !event.IsActive {
		s.logger.Warn("GetPublic: event id=%d is not active", eventID)
		return nil, ErrEventNotFound
	}

	property, err := s.propertyRepo.GetByID(ctx, event.PropertyID)
	if err != nil {
		s.logger.Error("GetPublic: failed to get property id=%d for event id=%d: %v", event.PropertyID, eventID, err)
		return nil, fmt.Errorf("%w: GetPublic - failed to get property: %v", ErrInternal, err)
	}

	return models.FromDomainEvent(event).WithProperty(property), nil
}

// UpdateStatus меняет статус события: draft -> published -> completed,
// draft|published -> cancelled. Завершённое или отменённое событие деактивируется.
func (s *Service) UpdateStatus(ctx context.Context, eventID int64, req *models.UpdateStatusRequest) (*models.EventResponse, error) {
	s.logger.Info("UpdateStatus: event id=%d to status=%s by agent=%d", eventID, req.Status, req.Actor.AgentID)

	status := domain.EventStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.IsValid() {
		s.logger.Warn("UpdateStatus: invalid status=%s for event id=%d", req.Status, eventID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var updated *domain.OpenHouseEvent

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Блокируем событие (FOR UPDATE)
		event, err := s.getEvent(txCtx, "UpdateStatus", eventID)
		if err != nil {
			return err
		}

		if !req.Actor.CanManage(event.AgentID) {
			s.logger.Warn("UpdateStatus: access denied for agent=%d to event id=%d", req.Actor.AgentID, eventID)
			return ErrAccessDenied
		}

		if !event.CanTransitionTo(status) {
			s.logger.Warn("UpdateStatus: event id=%d cannot move from %s to %s", eventID, event.Status, status)
			return ErrInvalidTransition
		}

		isActive := event.IsActive && !status.IsTerminal()
		if err := s.eventRepo.UpdateStatus(txCtx, eventID, status, isActive); err != nil {
			s.logger.Error("UpdateStatus: failed to update event id=%d: %v", eventID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		event.Status = status
		event.IsActive = isActive
		updated = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: event id=%d is now %s (active=%t)", eventID, updated.Status, updated.IsActive)
	return models.FromDomainEvent(updated), nil
}

// Вспомогательные методы

func (s *Service) getEvent(ctx context.Context, op string, eventID int64) (*domain.OpenHouseEvent, error) {
	if eventID <= 0 {
		return nil, fmt.Errorf("%w: eventId must be positive", ErrInvalidInput)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, eventRepo.ErrEventNotFound) {
			s.logger.Warn("%s: event id=%d not found", op, eventID)
			return nil, ErrEventNotFound
		}
		s.logger.Error("%s: failed to get event id=%d: %v", op, eventID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	return event, nil
}

// withProperties собирает ответ списка, подтягивая объекты по одному разу.
// skipInactive убирает события неактивных объектов.
func (s *Service) withProperties(
	ctx context.Context,
	op string,
	events []*domain.OpenHouseEvent,
	skipInactive bool,
) (*models.EventListResponse, error) {
	resp := &models.EventListResponse{Events: make([]*models.EventResponse, 0, len(events))}
	properties := make(map[int64]*domain.Property)

	for _, event := range events {
		property, ok := properties[event.PropertyID]
		if !ok {
			var err error
			property, err = s.propertyRepo.GetByID(ctx, event.PropertyID)
			if err != nil {
				s.logger.Error("%s: failed to get property id=%d for event id=%d: %v", op, event.PropertyID, event.ID, err)
				return nil, fmt.Errorf("%w: %s - failed to get property: %v", ErrInternal, op, err)
			}
			properties[event.PropertyID] = property
		}

		if skipInactive && !property.IsActive {
			continue
		}
		resp.Events = append(resp.Events, models.FromDomainEvent(event).WithProperty(property))
	}

	return resp, nil
}

// createSlots нарезает окно события на слоты и сохраняет их
func (s *Service) createSlots(ctx context.Context, op string, event *domain.OpenHouseEvent) ([]*domain.TimeSlot, error) {
	specs := generateSlots.GenerateSlots(event.StartTime, event.EndTime, event.SlotDuration, event.MaxParticipants)

	slots, err := s.slotRepo.CreateBatch(ctx, event.ID, specs)
	if err != nil {
		s.logger.Error("%s: failed to create slots for event id=%d: %v", op, event.ID, err)
		return nil, fmt.Errorf("%w: %s - failed to create slots: %v", ErrInternal, op, err)
	}

	return slots, nil
}

// schedule расписание события в том виде, в каком его присылает клиент
type schedule struct {
	EventDate       string
	StartTime       string
	EndTime         string
	SlotDuration    int
	MaxParticipants int
}

// parsedSchedule проверенное расписание
type parsedSchedule struct {
	date  time.Time
	start types.TimeString
	end   types.TimeString
}

// updateChanges что затронуло изменение события
type updateChanges struct {
	schedule bool // дата, окно, длительность или вместимость
	slots    bool // окно, длительность или вместимость
}

// buildEvent валидирует запрос и собирает событие в статусе draft
func (s *Service) buildEvent(req *models.CreateEventRequest) (*domain.OpenHouseEvent, error) {
	if req.PropertyID <= 0 {
		return nil, fmt.Errorf("%w: propertyId must be positive", ErrInvalidInput)
	}

	parsed, err := s.parseSchedule(schedule{
		EventDate:       req.EventDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		SlotDuration:    req.SlotDuration,
		MaxParticipants: req.MaxParticipants,
	}, true)
	if err != nil {
		return nil, err
	}

	return &domain.OpenHouseEvent{
		PropertyID:      req.PropertyID,
		EventDate:       parsed.date,
		StartTime:       parsed.start,
		EndTime:         parsed.end,
		SlotDuration:    req.SlotDuration,
		MaxParticipants: req.MaxParticipants,
		Status:          domain.EventStatusDraft,
		IsActive:        true,
		Notes:           normalizeNotes(req.Notes),
	}, nil
}

// applyUpdate накладывает изменения на событие и проверяет результат теми же правилами,
// что и при создании. Дата в прошлом проверяется, только если дату меняют.
func (s *Service) applyUpdate(event *domain.OpenHouseEvent, req *models.UpdateEventRequest) (updateChanges, error) {
	var changes updateChanges

	next := schedule{
		EventDate:       event.EventDate.Format(domain.DateFormat),
		StartTime:       event.StartTime.String(),
		EndTime:         event.EndTime.String(),
		SlotDuration:    event.SlotDuration,
		MaxParticipants: event.MaxParticipants,
	}
	if req.EventDate != nil {
		next.EventDate = *req.EventDate
	}
	if req.StartTime != nil {
		next.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		next.EndTime = *req.EndTime
	}
	if req.SlotDuration != nil {
		next.SlotDuration = *req.SlotDuration
	}
	if req.MaxParticipants != nil {
		next.MaxParticipants = *req.MaxParticipants
	}

	parsed, err := s.parseSchedule(next, req.EventDate != nil)
	if err != nil {
		return changes, err
	}

	changes.slots = parsed.start != event.StartTime ||
		parsed.end != event.EndTime ||
		next.SlotDuration != event.SlotDuration ||
		next.MaxParticipants != event.MaxParticipants
	changes.schedule = changes.slots || !parsed.date.Equal(event.EventDate)

	event.EventDate = parsed.date
	event.StartTime = parsed.start
	event.EndTime = parsed.end
	event.SlotDuration = next.SlotDuration
	event.MaxParticipants = next.MaxParticipants

	if req.Notes != nil {
		event.Notes = normalizeNotes(req.Notes)
	}
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}

	return changes, nil
}

// parseSchedule проверяет дату, окно, длительность слота и вместимость
func (s *Service) parseSchedule(in schedule, checkPast bool) (*parsedSchedule, error) {
	date, err := time.ParseInLocation(domain.DateFormat, in.EventDate, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: eventDate must be YYYY-MM-DD", ErrInvalidInput)
	}

	if checkPast {
		now := s.now().In(s.loc)
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
		if date.Before(today) {
			return nil, fmt.Errorf("%w: %s is in the past", ErrInvalidEventDate, in.EventDate)
		}
	}

	start, err := types.NewTimeStringFromString(in.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	end, err := types.NewTimeStringFromString(in.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
	}
	if !start.IsBefore(end) {
		return nil, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidTimeRange)
	}

	if !domain.IsAllowedSlotDuration(in.SlotDuration) {
		return nil, fmt.Errorf("%w: slotDuration must be one of %v", ErrInvalidInput, domain.AllowedSlotDurations)
	}
	startMin, _ := start.Minutes()
	endMin, _ := end.Minutes()
	if endMin-startMin < in.SlotDuration {
		return nil, fmt.Errorf("%w: window is shorter than one slot", ErrInvalidTimeRange)
	}

	if in.MaxParticipants < domain.MinParticipantsPerSlot || in.MaxParticipants > domain.MaxParticipantsPerSlot {
		return nil, fmt.Errorf("%w: maxParticipants must be between %d and %d",
			ErrInvalidInput, domain.MinParticipantsPerSlot, domain.MaxParticipantsPerSlot)
	}

	return &parsedSchedule{date: date, start: start, end: end}, nil
}

// normalizeNotes обрезает пробелы; пустая заметка превращается в nil
func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
