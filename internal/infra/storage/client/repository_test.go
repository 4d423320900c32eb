package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

func TestUpsertQuery(t *testing.T) {
	query, args, err := upsertQuery(&domain.Client{
		Email:           "  Mario.Rossi@Example.com ",
		FirstName:       "Mario",
		LastName:        "Rossi",
		Phone:           "+39 333 1234567",
		PrivacyAccepted: true,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "INSERT INTO clients (email,nome,cognome,telefono,privacy_accepted) VALUES ($1,$2,$3,$4,$5)")
	assert.Contains(t, query, "ON CONFLICT (email) DO UPDATE SET")
	assert.Contains(t, query, "privacy_accepted = clients.privacy_accepted OR EXCLUDED.privacy_accepted")
	assert.Contains(t, query, "RETURNING id, email")

	// ключ - email без пробелов, регистр сохраняется
	assert.Equal(t, []interface{}{"Mario.Rossi@Example.com", "Mario", "Rossi", "+39 333 1234567", true}, args)
}
