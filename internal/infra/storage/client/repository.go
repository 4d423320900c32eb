package client

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	"github.com/m04kA/SMC-OpenHouseService/pkg/dbmetrics"
	"github.com/m04kA/SMC-OpenHouseService/pkg/psqlbuilder"
)

// Repository репозиторий клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создаёт клиента или обновляет контакты существующего.
// Ключ - email в точности как передан (без учёта окружающих пробелов).
// Повторный вызов с теми же данными не создаёт новых строк.
func (r *Repository) Upsert(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := upsertQuery(c).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var result domain.Client
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&result.ID,
		&result.Email,
		&result.FirstName,
		&result.LastName,
		&result.Phone,
		&result.PrivacyAccepted,
		&result.CreatedAt,
		&result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return &result, nil
}

// upsertQuery INSERT ... ON CONFLICT (email).
// Согласие на обработку данных, однажды данное, повторной заявкой не снимается.
func upsertQuery(c *domain.Client) squirrel.InsertBuilder {
	return psqlbuilder.Insert("clients").
		Columns("email", "nome", "cognome", "telefono", "privacy_accepted").
		Values(domain.NormalizeEmail(c.Email), c.FirstName, c.LastName, c.Phone, c.PrivacyAccepted).
		Suffix(`ON CONFLICT (email) DO UPDATE SET
			nome = EXCLUDED.nome,
			cognome = EXCLUDED.cognome,
			telefono = EXCLUDED.telefono,
			privacy_accepted = clients.privacy_accepted OR EXCLUDED.privacy_accepted,
			updated_at = NOW()
		RETURNING id, email, nome, cognome, telefono, privacy_accepted, created_at, updated_at`)
}
