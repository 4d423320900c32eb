package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	"github.com/m04kA/SMC-OpenHouseService/pkg/ptr"
)

func TestXLSXExporter_EventBookings(t *testing.T) {
	event := &domain.OpenHouseEvent{
		ID:        3,
		EventDate: time.Date(2026, 11, 7, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		EndTime:   "12:00",
	}
	rows := []*domain.BookingDetails{
		{
			Booking: domain.Booking{
				ID:        1,
				Status:    domain.StatusConfirmed,
				Message:   ptr.Ptr("C'è un box auto?"),
				CreatedAt: time.Date(2026, 11, 1, 9, 30, 0, 0, time.UTC),
			},
			Client:   domain.Client{FirstName: "Mario", LastName: "Rossi", Email: "mario@example.com", Phone: "333"},
			Slot:     domain.TimeSlot{StartTime: "10:00", EndTime: "10:30"},
			Property: domain.Property{Title: "Trilocale Navigli"},
		},
		{
			Booking: domain.Booking{
				ID:           2,
				Status:       domain.StatusCancelled,
				Cancellation: &domain.Cancellation{Reason: domain.DefaultCancellationReason},
			},
			Client: domain.Client{FirstName: "Anna", LastName: "Verdi"},
			Slot:   domain.TimeSlot{StartTime: "10:30", EndTime: "11:00"},
		},
	}

	data, err := NewXLSXExporter(time.UTC).EventBookings(event, rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(bookingsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Open House 2026-11-07, 10:00 - 12:00 (Trilocale Navigli)", title)

	got, err := f.GetRows(bookingsSheet)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, bookingHeaders, got[1])
	assert.Equal(t, []string{"1", "10:00 - 10:30", "Mario", "Rossi", "mario@example.com", "333",
		"confirmed", "", "C'è un box auto?", "No", "2026-11-01 09:30"}, got[2])
	assert.Equal(t, "cancelled", got[3][6])
	assert.Equal(t, domain.DefaultCancellationReason, got[3][7])
}

func TestXLSXExporter_EmptyEvent(t *testing.T) {
	event := &domain.OpenHouseEvent{EventDate: time.Date(2026, 11, 7, 0, 0, 0, 0, time.UTC), StartTime: "10:00", EndTime: "11:00"}

	data, err := NewXLSXExporter(nil).EventBookings(event, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(bookingsSheet)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, []string{bookingsSheet}, f.GetSheetList())
}
