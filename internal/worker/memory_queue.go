package worker

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

// MemoryQueue очередь на буферизованном канале. Задачи теряются при рестарте,
// их досылает Sweeper по флагам доставки в БД.
type MemoryQueue struct {
	jobs chan Job

	mu        sync.Mutex
	dead      []Job
	deadIndex map[string]struct{}
}

// NewMemoryQueue создает очередь ёмкостью size
func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 256
	}
	return &MemoryQueue{
		jobs:      make(chan Job, size),
		deadIndex: make(map[string]struct{}),
	}
}

func (q *MemoryQueue) Push(_ context.Context, job Job) error {
	if err := job.Validate(); err != nil {
		return err
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Pop(ctx context.Context, timeout time.Duration) (Job, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case job := <-q.jobs:
		return job, true, nil
	case <-timer.C:
		return Job{}, false, nil
	case <-ctx.Done():
		return Job{}, false, ctx.Err()
	}
}

func (q *MemoryQueue) DeadLetter(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dead = append(q.dead, job)
	q.deadIndex[deadLetterMember(job.BookingID, job.Kind)] = struct{}{}
	return nil
}

func (q *MemoryQueue) IsDeadLettered(_ context.Context, bookingID int64, kind domain.NotificationKind) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.deadIndex[deadLetterMember(bookingID, kind)]
	return ok, nil
}

// Dead возвращает копию списка задач в dead letter
func (q *MemoryQueue) Dead() []Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Job(nil), q.dead...)
}

func (q *MemoryQueue) Len(context.Context) (int64, error) {
	return int64(len(q.jobs)), nil
}

func (q *MemoryQueue) Name() string {
	return "memory"
}
