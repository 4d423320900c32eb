package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

// Исходы доставки для метрик
const (
	outcomeDelivered  = "delivered"
	outcomeRetry      = "retry"
	outcomeDeadLetter = "dead_letter"
	outcomeDropped    = "dropped"
)

const (
	defaultWorkers     = 2
	defaultSendTimeout = 30 * time.Second
	defaultPollTimeout = time.Second
	popErrorPause      = time.Second
)

// Pool пул воркеров, разбирающих очередь уведомлений.
// Неудачные попытки повторяются с экспоненциальной задержкой,
// после MaxAttempts задача уходит в dead letter.
type Pool struct {
	queue       Queue
	handler     Handler
	retry       RetryPolicy
	workers     int
	sendTimeout time.Duration
	pollTimeout time.Duration
	permanent   []error
	metrics     Metrics
	logger      Logger
	now         func() time.Time

	// отложенные повторы
	pending sync.WaitGroup
}

// Option настройка пула
type Option func(*Pool)

// WithWorkers задаёт число воркеров
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithRetryPolicy задаёт политику повторов
func WithRetryPolicy(r RetryPolicy) Option {
	return func(p *Pool) {
		p.retry = r.withDefaults()
	}
}

// WithSendTimeout ограничивает время одной попытки доставки
func WithSendTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.sendTimeout = d
		}
	}
}

// WithPollTimeout задаёт время ожидания задачи в очереди
func WithPollTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.pollTimeout = d
		}
	}
}

// WithPermanentErrors перечисляет ошибки, которые не имеет смысла повторять
func WithPermanentErrors(errs ...error) Option {
	return func(p *Pool) {
		p.permanent = append(p.permanent, errs...)
	}
}

// NewPool создает пул воркеров
func NewPool(queue Queue, handler Handler, metrics Metrics, logger Logger, opts ...Option) *Pool {
	p := &Pool{
		queue:       queue,
		handler:     handler,
		retry:       RetryPolicy{}.withDefaults(),
		workers:     defaultWorkers,
		sendTimeout: defaultSendTimeout,
		pollTimeout: defaultPollTimeout,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enqueue ставит уведомление в очередь
func (p *Pool) Enqueue(ctx context.Context, bookingID int64, kind domain.NotificationKind) error {
	job := Job{
		BookingID: bookingID,
		Kind:      kind,
		CreatedAt: p.now(),
	}
	if err := p.queue.Push(ctx, job); err != nil {
		return err
	}
	p.reportDepth(ctx)
	return nil
}

// Run запускает воркеры и блокируется до отмены ctx.
// Отложенные повторы, не успевшие выполниться, досылает Sweeper.
func (p *Pool) Run(ctx context.Context) error {
	p.logger.Info("worker pool: starting %d workers on queue %s", p.workers, p.queue.Name())

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		id := i + 1
		g.Go(func() error {
			p.loop(gctx, id)
			return nil
		})
	}

	err := g.Wait()
	p.pending.Wait()

	p.logger.Info("worker pool: stopped")
	return err
}

func (p *Pool) loop(ctx context.Context, id int) {
	for {
		if ctx.Err() != nil {
			return
		}

		job, ok, err := p.queue.Pop(ctx, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("worker %d: failed to pop job: %v", id, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(popErrorPause):
			}
			continue
		}
		if !ok {
			continue
		}

		p.reportDepth(ctx)
		p.process(ctx, job)
	}
}

// process выполняет одну попытку доставки
func (p *Pool) process(ctx context.Context, job Job) {
	job.Attempt++

	sendCtx, cancel := context.WithTimeout(ctx, p.sendTimeout)
	err := p.handler.Notify(sendCtx, job.BookingID, job.Kind)
	cancel()

	if err == nil {
		p.metrics.IncNotification(string(job.Kind), outcomeDelivered)
		return
	}

	job.LastError = err.Error()

	if p.isPermanent(err) {
		p.logger.Warn("worker: %s for booking id=%d failed permanently: %v", job.Kind, job.BookingID, err)
		p.deadLetter(ctx, job)
		return
	}

	if job.Attempt >= p.retry.MaxAttempts {
		p.logger.Error("worker: %s for booking id=%d failed after %d attempts: %v",
			job.Kind, job.BookingID, job.Attempt, err)
		p.deadLetter(ctx, job)
		return
	}

	delay := p.retry.NextDelay(job.Attempt)
	p.logger.Warn("worker: %s for booking id=%d failed (attempt %d), retry in %s: %v",
		job.Kind, job.BookingID, job.Attempt, delay, err)
	p.metrics.IncNotification(string(job.Kind), outcomeRetry)
	p.scheduleRetry(ctx, job, delay)
}

// deadLetter убирает задачу из оборота. Если сохранить её не удалось,
// задача считается потерянной (dropped) и её досылает Sweeper.
func (p *Pool) deadLetter(ctx context.Context, job Job) {
	if err := p.queue.DeadLetter(ctx, job); err != nil {
		p.logger.Error("worker: failed to dead-letter %s for booking id=%d: %v", job.Kind, job.BookingID, err)
		p.metrics.IncNotification(string(job.Kind), outcomeDropped)
		return
	}
	p.metrics.IncNotification(string(job.Kind), outcomeDeadLetter)
}

func (p *Pool) scheduleRetry(ctx context.Context, job Job, delay time.Duration) {
	p.pending.Add(1)
	go func() {
		defer p.pending.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if err := p.queue.Push(ctx, job); err != nil {
			p.logger.Error("worker: failed to requeue %s for booking id=%d: %v", job.Kind, job.BookingID, err)
		}
	}()
}

func (p *Pool) isPermanent(err error) bool {
	for _, target := range p.permanent {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (p *Pool) reportDepth(ctx context.Context) {
	depth, err := p.queue.Len(ctx)
	if err != nil {
		return
	}
	p.metrics.SetQueueDepth(p.queue.Name(), depth)
}
