// Package pgtest помощники для тестов репозиториев на живом PostgreSQL.
// Тесты запускаются только при заданном TEST_POSTGRES_DSN.
package pgtest

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

// Open подключается к PostgreSQL из TEST_POSTGRES_DSN и накатывает схему
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN is not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, file, _, _ := runtime.Caller(0)
	schema, err := os.ReadFile(filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations", "001_init.sql"))
	require.NoError(t, err)

	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return db
}

// Unique суффикс для email и прочих уникальных полей
func Unique() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// SeedEvent агент, объект и опубликованное событие через неделю
func SeedEvent(t *testing.T, db *sql.DB) (agentID, eventID int64) {
	t.Helper()

	var propertyID int64
	require.NoError(t, db.QueryRow(
		`INSERT INTO agents (email, nome, cognome) VALUES ($1, 'Laura', 'Bianchi') RETURNING id`,
		"agent-"+Unique()+"@example.com",
	).Scan(&agentID))

	require.NoError(t, db.QueryRow(
		`INSERT INTO properties (agent_id, titolo, tipo, indirizzo, citta) VALUES ($1, 'Trilocale', 'appartamento', 'Via Roma 1', 'Milano') RETURNING id`,
		agentID,
	).Scan(&propertyID))

	require.NoError(t, db.QueryRow(
		`INSERT INTO open_house_events (property_id, agent_id, event_date, start_time, end_time, slot_duration, max_participants, status)
		 VALUES ($1, $2, CURRENT_DATE + 7, '10:00', '12:00', 30, 3, 'published') RETURNING id`,
		propertyID, agentID,
	).Scan(&eventID))

	return agentID, eventID
}

// SeedSlot слот 10:00-10:30 события
func SeedSlot(t *testing.T, db *sql.DB, eventID int64, capacity int) int64 {
	t.Helper()

	var slotID int64
	require.NoError(t, db.QueryRow(
		`INSERT INTO time_slots (event_id, start_time, end_time, capacity) VALUES ($1, '10:00', '10:30', $2) RETURNING id`,
		eventID, capacity,
	).Scan(&slotID))
	return slotID
}

// SeedBooking вставляет бронирование напрямую, минуя допуск.
// Нужен для legacy-строк, которые сервис сам больше не пишет.
func SeedBooking(t *testing.T, db *sql.DB, eventID, slotID, agentID int64, status string, reason *string) int64 {
	t.Helper()

	var clientID int64
	require.NoError(t, db.QueryRow(
		`INSERT INTO clients (email, nome, cognome, telefono, privacy_accepted) VALUES ($1, 'Mario', 'Rossi', '+39 333 1234567', TRUE) RETURNING id`,
		"client-"+Unique()+"@example.com",
	).Scan(&clientID))

	var bookingID int64
	require.NoError(t, db.QueryRow(
		`INSERT INTO bookings (event_id, slot_id, client_id, agent_id, status, cancellation_reason) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		eventID, slotID, clientID, agentID, status, reason,
	).Scan(&bookingID))
	return bookingID
}
