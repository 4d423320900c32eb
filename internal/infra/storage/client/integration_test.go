package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	"github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/pgtest"
	"github.com/m04kA/SMC-OpenHouseService/pkg/dbmetrics"
)

func TestUpsert_Postgres(t *testing.T) {
	db := pgtest.Open(t)
	repo := NewRepository(dbmetrics.Wrap(db, nil))
	ctx := context.Background()
	suffix := pgtest.Unique()

	first, err := repo.Upsert(ctx, &domain.Client{
		Email:           "Mario.Rossi-" + suffix + "@Example.com",
		FirstName:       "Mario",
		LastName:        "Rossi",
		Phone:           "+39 333 1234567",
		PrivacyAccepted: true,
	})
	require.NoError(t, err)

	// повторная заявка: та же строка, контакты обновлены, согласие не снято
	again, err := repo.Upsert(ctx, &domain.Client{
		Email:     " Mario.Rossi-" + suffix + "@Example.com ",
		FirstName: "Mario",
		LastName:  "Rossi",
		Phone:     "+39 333 7654321",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "+39 333 7654321", again.Phone)
	assert.True(t, again.PrivacyAccepted)

	// другой регистр - другой клиент
	lower, err := repo.Upsert(ctx, &domain.Client{
		Email:     "mario.rossi-" + suffix + "@example.com",
		FirstName: "Mario",
		LastName:  "Rossi",
		Phone:     "+39 333 1234567",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, lower.ID)
	assert.Equal(t, "Mario.Rossi-"+suffix+"@Example.com", first.Email)
}
