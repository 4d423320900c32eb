package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	"github.com/m04kA/SMC-OpenHouseService/pkg/dbmetrics"
	"github.com/m04kA/SMC-OpenHouseService/pkg/psqlbuilder"
)

var slotColumns = []string{
	"id",
	"event_id",
	"start_time",
	"end_time",
	"capacity",
	"created_at",
}

// Repository репозиторий временных слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает слот по ID.
// Внутри транзакции строка слота блокируется (FOR UPDATE): так сериализуются
// все конкурентные попытки забронировать один и тот же слот.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var slot domain.TimeSlot
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.EventID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Capacity,
		&slot.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %w", ErrScanRow, err)
	}

	return &slot, nil
}

// ListByEvent возвращает слоты события по возрастанию времени начала
func (r *Repository) ListByEvent(ctx context.Context, eventID int64) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"event_id": eventID}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByEvent - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEvent - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// DeleteByEvent удаляет все слоты события, возвращает количество удалённых
func (r *Repository) DeleteByEvent(ctx context.Context, eventID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_slots").
		Where(squirrel.Eq{"event_id": eventID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByEvent - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByEvent - execute delete: %w", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByEvent - get rows affected: %v", ErrExecQuery, err)
	}

	return deleted, nil
}

// CreateBatch вставляет набор слотов одним запросом
func (r *Repository) CreateBatch(ctx context.Context, eventID int64, specs []domain.SlotSpec) ([]*domain.TimeSlot, error) {
	if len(specs) == 0 {
		return []*domain.TimeSlot{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("time_slots").
		Columns("event_id", "start_time", "end_time", "capacity")

	for _, spec := range specs {
		insertBuilder = insertBuilder.Values(eventID, spec.StartTime, spec.EndTime, spec.Capacity)
	}

	query, args, err := insertBuilder.
		Suffix("RETURNING " + joinColumns(slotColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - execute insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	slots, err := scanSlots(rows)
	if err != nil {
		return nil, err
	}

	// RETURNING не гарантирует порядок
	sortByStart(slots)
	return slots, nil
}

func scanSlots(rows *sql.Rows) ([]*domain.TimeSlot, error) {
	slots := make([]*domain.TimeSlot, 0)

	for rows.Next() {
		var slot domain.TimeSlot
		err := rows.Scan(
			&slot.ID,
			&slot.EventID,
			&slot.StartTime,
			&slot.EndTime,
			&slot.Capacity,
			&slot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
