package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultSweepBatch = 200

// Sweeper по расписанию находит подтверждённые бронирования с недоставленными
// уведомлениями и ставит их в очередь повторно. Уведомления из dead letter
// пропускаются.
type Sweeper struct {
	bookings BookingLister
	enqueuer Enqueuer
	dead     DeadLetters
	minAge   time.Duration
	maxAge   time.Duration
	batch    uint64
	cron     *cron.Cron
	now      func() time.Time
	logger   Logger
}

// NewSweeper создает sweeper. Бронирования моложе minAge ещё обрабатываются
// основным потоком, старше maxAge больше не досылаются.
func NewSweeper(
	bookings BookingLister,
	enqueuer Enqueuer,
	dead DeadLetters,
	minAge, maxAge time.Duration,
	logger Logger,
) *Sweeper {
	return &Sweeper{
		bookings: bookings,
		enqueuer: enqueuer,
		dead:     dead,
		minAge:   minAge,
		maxAge:   maxAge,
		batch:    defaultSweepBatch,
		now:      time.Now,
		logger:   logger,
	}
}

// Start регистрирует задачу по cron-выражению и запускает планировщик
func (s *Sweeper) Start(ctx context.Context, schedule string) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("sweeper: run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweeper schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.logger.Info("sweeper: started with schedule %q", schedule)
	return nil
}

// Stop останавливает планировщик и ждёт завершения текущего прохода
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("sweeper: stopped")
}

// RunOnce выполняет один проход и возвращает число поставленных задач
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	now := s.now()
	from := now.Add(-s.maxAge)
	to := now.Add(-s.minAge)

	bookings, err := s.bookings.ListUndelivered(ctx, from, to, s.batch)
	if err != nil {
		return 0, fmt.Errorf("list undelivered: %w", err)
	}

	enqueued, skipped := 0, 0
	for _, b := range bookings {
		for _, kind := range b.PendingNotifications() {
			dead, err := s.dead.IsDeadLettered(ctx, b.ID, kind)
			if err != nil {
				s.logger.Error("sweeper: failed to check dead letter for booking id=%d: %v", b.ID, err)
				continue
			}
			if dead {
				skipped++
				continue
			}

			if err := s.enqueuer.Enqueue(ctx, b.ID, kind); err != nil {
				s.logger.Error("sweeper: failed to enqueue %s for booking id=%d: %v", kind, b.ID, err)
				continue
			}
			enqueued++
		}
	}

	if enqueued > 0 || skipped > 0 {
		s.logger.Info("sweeper: re-enqueued %d notifications for %d bookings, skipped %d dead-lettered",
			enqueued, len(bookings), skipped)
	}
	return enqueued, nil
}
