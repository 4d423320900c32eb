package event

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

var eventColumns = []string{
	"id",
	"property_id",
	"agent_id",
	"event_date",
	"start_time",
	"end_time",
	"slot_duration",
	"max_participants",
	"status",
	"is_active",
	"note",
	"created_at",
	"updated_at",
}

// Repository репозиторий событий open house
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория событий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает событие
func (r *Repository) Create(ctx context.Context, event *domain.OpenHouseEvent) (*domain.OpenHouseEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("open_house_events").
		Columns(
			"property_id",
			"agent_id",
			"event_date",
			"start_time",
			"end_time",
			"slot_duration",
			"max_participants",
			"status",
			"is_active",
			"note",
		).
		Values(
			event.PropertyID,
			event.AgentID,
			event.EventDate,
			event.StartTime,
			event.EndTime,
			event.SlotDuration,
			event.MaxParticipants,
			event.Status,
			event.IsActive,
			event.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&event.ID,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return event, nil
}

// GetByID получает событие по ID.
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы перегенерация слотов
// и смена статуса не шли параллельно.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.OpenHouseEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(eventColumns...).
		From("open_house_events").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var event domain.OpenHouseEvent
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&event.ID,
		&event.PropertyID,
		&event.AgentID,
		&event.EventDate,
		&event.StartTime,
		&event.EndTime,
		&event.SlotDuration,
		&event.MaxParticipants,
		&event.Status,
		&event.IsActive,
		&event.Notes,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan event: %w", ErrScanRow, err)
	}

	return &event, nil
}

// UpdateStatus меняет статус события и флаг активности
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.EventStatus, isActive bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("open_house_events").
		Set("status", status).
		Set("is_active", isActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

// Update сохраняет окно, длительность слота, вместимость, заметку и флаг активности события
func (r *Repository) Update(ctx context.Context, event *domain.OpenHouseEvent) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("open_house_events").
		Set("event_date", event.EventDate).
		Set("start_time", event.StartTime).
		Set("end_time", event.EndTime).
		Set("slot_duration", event.SlotDuration).
		Set("max_participants", event.MaxParticipants).
		Set("is_active", event.IsActive).
		Set("note", event.Notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": event.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&event.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return nil
}

// List возвращает события по фильтру, новые даты первыми
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]*domain.OpenHouseEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]*domain.OpenHouseEvent, 0)
	for rows.Next() {
		var event domain.OpenHouseEvent
		err := rows.Scan(
			&event.ID,
			&event.PropertyID,
			&event.AgentID,
			&event.EventDate,
			&event.StartTime,
			&event.EndTime,
			&event.SlotDuration,
			&event.MaxParticipants,
			&event.Status,
			&event.IsActive,
			&event.Notes,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return events, nil
}

func listQuery(filter ListFilter) squirrel.SelectBuilder {
	selectBuilder := psqlbuilder.Select(eventColumns...).
		From("open_house_events")

	if filter.AgentID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"agent_id": *filter.AgentID})
	}
	if filter.OnlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}
	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": filter.Statuses})
	}

	selectBuilder = selectBuilder.OrderBy("event_date DESC", "start_time DESC", "id DESC")
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(filter.Limit)
	}

	return selectBuilder
}
