package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

// RedisQueue очередь на списках Redis: LPUSH при постановке, BRPOP при чтении.
// Задачи, исчерпавшие попытки, складываются в отдельный список; множество
// <deadLetterKey>:index хранит пары booking:kind для быстрой проверки.
type RedisQueue struct {
	client        *redis.Client
	key           string
	deadLetterKey string
}

// NewRedisQueue создает очередь поверх клиента Redis
func NewRedisQueue(client *redis.Client, key, deadLetterKey string) *RedisQueue {
	return &RedisQueue{
		client:        client,
		key:           key,
		deadLetterKey: deadLetterKey,
	}
}

func (q *RedisQueue) Push(ctx context.Context, job Job) error {
	if err := job.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("redis lpush %s: %w", q.key, err)
	}
	return nil
}

func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (Job, bool, error) {
	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Job{}, false, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Job{}, false, ctxErr
		}
		return Job{}, false, fmt.Errorf("redis brpop %s: %w", q.key, err)
	}
	if len(res) != 2 {
		return Job{}, false, nil
	}

	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return Job{}, false, fmt.Errorf("decode job: %w", err)
	}
	return job, true, nil
}

func (q *RedisQueue) DeadLetter(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, q.deadLetterKey, data)
		pipe.SAdd(ctx, q.deadLetterIndexKey(), deadLetterMember(job.BookingID, job.Kind))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis dead letter %s: %w", q.deadLetterKey, err)
	}
	return nil
}

func (q *RedisQueue) IsDeadLettered(ctx context.Context, bookingID int64, kind domain.NotificationKind) (bool, error) {
	ok, err := q.client.SIsMember(ctx, q.deadLetterIndexKey(), deadLetterMember(bookingID, kind)).Result()
	if err != nil {
		return false, fmt.Errorf("redis sismember %s: %w", q.deadLetterIndexKey(), err)
	}
	return ok, nil
}

func (q *RedisQueue) deadLetterIndexKey() string {
	return q.deadLetterKey + ":index"
}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

func (q *RedisQueue) Name() string {
	return q.key
}
