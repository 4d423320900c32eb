package property

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

// Repository репозиторий объектов недвижимости (только чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория объектов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает объект по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"agent_id",
		"titolo",
		"tipo",
		"prezzo",
		"indirizzo",
		"citta",
		"provincia",
		"brochure_url",
		"is_active",
	).
		From("properties").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.Property
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.AgentID,
		&p.Title,
		&p.Type,
		&p.Price,
		&p.Address,
		&p.City,
		&p.Province,
		&p.BrochureURL,
		&p.IsActive,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan property: %w", ErrScanRow, err)
	}

	return &p, nil
}
