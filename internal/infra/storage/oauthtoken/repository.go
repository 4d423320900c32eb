package oauthtoken

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

// Repository хранилище OAuth-токенов агентов (одна строка на агента)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория токенов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает токен агента
func (r *Repository) Get(ctx context.Context, agentID int64) (*domain.AgentOAuthToken, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"agent_id", "access_token", "refresh_token", "token_type", "expiry", "updated_at",
	).
		From("agent_oauth_tokens").
		Where(squirrel.Eq{"agent_id": agentID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var token domain.AgentOAuthToken
	var expiry sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&token.AgentID,
		&token.AccessToken,
		&token.RefreshToken,
		&token.TokenType,
		&expiry,
		&token.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan token: %w", ErrExecQuery, err)
	}

	token.Expiry = expiry.Time
	return &token, nil
}

// Save сохраняет токен агента.
// Пустой refresh token не затирает ранее сохранённый: Google возвращает его
// только при первом согласии.
func (r *Repository) Save(ctx context.Context, token *domain.AgentOAuthToken) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var expiry interface{}
	if !token.Expiry.IsZero() {
		expiry = token.Expiry
	}

	query, args, err := psqlbuilder.Insert("agent_oauth_tokens").
		Columns("agent_id", "access_token", "refresh_token", "token_type", "expiry").
		Values(token.AgentID, token.AccessToken, token.RefreshToken, token.TokenType, expiry).
		Suffix(`ON CONFLICT (agent_id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = COALESCE(NULLIF(EXCLUDED.refresh_token, ''), agent_oauth_tokens.refresh_token),
			token_type = EXCLUDED.token_type,
			expiry = EXCLUDED.expiry,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Save - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Save - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}
