package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers"
	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	createBooking "github.com/m04kA/SMC-OpenHouseService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-OpenHouseService/pkg/logger"
)

type fakeUseCase struct {
	got *createBooking.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &createBooking.Response{
		Booking: &domain.Booking{
			ID: 99, EventID: req.EventID, SlotID: req.SlotID, ClientID: 3,
			Status:    domain.StatusConfirmed,
			Message:   req.Client.Message,
			CreatedAt: time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC),
		},
		Slot:         &domain.TimeSlot{ID: req.SlotID, StartTime: "10:00", EndTime: "10:20", Capacity: 4},
		Availability: domain.SlotAvailability{Occupied: 1, Capacity: 4},
	}, nil
}

const validBody = `{
	"eventId": 1,
	"slotId": 11,
	"client": {"nome": "Mario", "cognome": "Rossi", "email": "mario.rossi@example.com", "telefono": "+39 333 1234567", "messaggio": "Ciao"},
	"privacyAccepted": true
}`

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, logger.Nop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(validBody)))

	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(1), uc.got.EventID)
	assert.Equal(t, "Mario", uc.got.Client.FirstName)
	assert.Equal(t, "Ciao", *uc.got.Client.Message)
	assert.True(t, uc.got.PrivacyAccepted)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(99), resp.ID)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, 3, resp.AvailableSpots)
	assert.Equal(t, 4, resp.TotalSpots)
	assert.Equal(t, "2026-10-18T10:00:00Z", resp.CreatedAt)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "broken json", body: `{`, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidRequestBody},
		{name: "unknown field", body: `{"eventId":1,"userId":2}`, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidRequestBody},
		{name: "validation", body: validBody, err: fmt.Errorf("%w: invalid email format", createBooking.ErrInvalidInput),
			wantStatus: http.StatusBadRequest, wantMsg: msgInvalidInput + ": invalid email format"},
		{name: "event not found", body: validBody, err: createBooking.ErrEventNotFound, wantStatus: http.StatusNotFound, wantMsg: msgEventNotFound},
		{name: "slot not found", body: validBody, err: createBooking.ErrSlotNotFound, wantStatus: http.StatusNotFound, wantMsg: msgSlotNotFound},
		{name: "slot full", body: validBody, err: createBooking.ErrSlotFull, wantStatus: http.StatusConflict, wantMsg: msgSlotFull},
		{name: "event inactive", body: validBody, err: createBooking.ErrEventInactive, wantStatus: http.StatusUnprocessableEntity, wantMsg: msgEventInactive},
		{name: "internal", body: validBody, err: fmt.Errorf("%w: db down", createBooking.ErrInternal), wantStatus: http.StatusInternalServerError},
		{name: "unexpected", body: validBody, err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, logger.Nop())

			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Message)
			}
			assert.NotContains(t, body.Message, "db down")
		})
	}
}
