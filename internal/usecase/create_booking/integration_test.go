package create_booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	bookingRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/booking"
	clientRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/client"
	eventRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/event"
	slotRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-OpenHouseService/pkg/dbmetrics"
	"github.com/m04kA/SMC-OpenHouseService/pkg/logger"
	"github.com/m04kA/SMC-OpenHouseService/pkg/txmanager"
)

// openTestDB подключается к PostgreSQL из TEST_POSTGRES_DSN и накатывает схему
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN is not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, file, _, _ := runtime.Caller(0)
	schema, err := os.ReadFile(filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations", "001_init.sql"))
	require.NoError(t, err)

	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return db
}

func seedSlot(t *testing.T, db *sql.DB, capacity int) (eventID, slotID int64) {
	t.Helper()
	suffix := time.Now().UnixNano()

	var agentID, propertyID int64
	require.NoError(t, db.QueryRow(
		`INSERT INTO agents (email, nome, cognome) VALUES ($1, 'Laura', 'Bianchi') RETURNING id`,
		fmt.Sprintf("agent-%d@example.com", suffix),
	).Scan(&agentID))

	require.NoError(t, db.QueryRow(
		`INSERT INTO properties (agent_id, titolo, tipo, indirizzo, citta) VALUES ($1, 'Trilocale', 'appartamento', 'Via Roma 1', 'Milano') RETURNING id`,
		agentID,
	).Scan(&propertyID))

	require.NoError(t, db.QueryRow(
		`INSERT INTO open_house_events (property_id, agent_id, event_date, start_time, end_time, slot_duration, max_participants, status)
		 VALUES ($1, $2, CURRENT_DATE + 7, '10:00', '11:00', 30, $3, 'published') RETURNING id`,
		propertyID, agentID, capacity,
	).Scan(&eventID))

	require.NoError(t, db.QueryRow(
		`INSERT INTO time_slots (event_id, start_time, end_time, capacity) VALUES ($1, '10:00', '10:30', $2) RETURNING id`,
		eventID, capacity,
	).Scan(&slotID))

	return eventID, slotID
}

func TestExecute_PostgresConcurrentAdmissions(t *testing.T) {
	db := openTestDB(t)
	eventID, slotID := seedSlot(t, db, 2)

	wrapped := dbmetrics.Wrap(db, nil)
	uc := NewUseCase(
		eventRepo.NewRepository(wrapped),
		slotRepo.NewRepository(wrapped),
		clientRepo.NewRepository(wrapped),
		bookingRepo.NewRepository(wrapped),
		txmanager.NewTransactionManager(wrapped, txmanager.WithMaxAttempts(20)),
		&fakeNotifier{},
		&fakeMetrics{},
		logger.Nop(),
	)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	suffix := time.Now().UnixNano()

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest(fmt.Sprintf("pg-%d-%d@example.com", suffix, i))
			req.EventID = eventID
			req.SlotID = slotID
			_, errs[i] = uc.Execute(context.Background(), req)
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, err := range errs {
		if err == nil {
			admitted++
			continue
		}
		require.True(t, errors.Is(err, ErrSlotFull), "unexpected error: %v", err)
	}
	require.Equal(t, 2, admitted)

	var stored int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM bookings WHERE slot_id = $1`, slotID).Scan(&stored))
	require.Equal(t, 2, stored)
}
