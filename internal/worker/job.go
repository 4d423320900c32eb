package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

var (
	// ErrQueueFull возвращается, когда in-memory очередь переполнена
	ErrQueueFull = errors.New("worker: queue is full")

	// ErrInvalidJob возвращается для задачи без бронирования или с неизвестным типом
	ErrInvalidJob = errors.New("worker: invalid job")
)

// Job задача доставки одного уведомления по бронированию
type Job struct {
	BookingID int64                   `json:"booking_id"`
	Kind      domain.NotificationKind `json:"kind"`
	Attempt   int                     `json:"attempt"`
	LastError string                  `json:"last_error,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

// Validate проверяет задачу перед постановкой в очередь
func (j Job) Validate() error {
	if j.BookingID <= 0 || !j.Kind.IsValid() {
		return ErrInvalidJob
	}
	return nil
}

// Queue очередь задач уведомлений
type Queue interface {
	// Push ставит задачу в очередь
	Push(ctx context.Context, job Job) error
	// Pop ждёт задачу не дольше timeout; ok == false, если очередь пуста
	Pop(ctx context.Context, timeout time.Duration) (job Job, ok bool, err error)
	// DeadLetter сохраняет задачу, исчерпавшую попытки или упавшую с постоянной ошибкой
	DeadLetter(ctx context.Context, job Job) error
	// IsDeadLettered сообщает, лежит ли уведомление бронирования в dead letter
	IsDeadLettered(ctx context.Context, bookingID int64, kind domain.NotificationKind) (bool, error)
	// Len возвращает число ожидающих задач
	Len(ctx context.Context) (int64, error)
	// Name имя очереди для метрик
	Name() string
}

// deadLetterMember ключ уведомления в индексе dead letter
func deadLetterMember(bookingID int64, kind domain.NotificationKind) string {
	return fmt.Sprintf("%d:%s", bookingID, kind)
}
