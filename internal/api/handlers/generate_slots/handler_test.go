package generate_slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/middleware"
	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	generateSlots "github.com/m04kA/SMC-OpenHouseService/internal/usecase/generate_slots"
	"github.com/m04kA/SMC-OpenHouseService/pkg/logger"
	"github.com/m04kA/SMC-OpenHouseService/pkg/types"
)

type fakeUseCase struct {
	got *generateSlots.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *generateSlots.Request) (*generateSlots.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &generateSlots.Response{
		SlotsCreated: 2,
		Slots: []*domain.TimeSlot{
			{ID: 1, EventID: req.EventID, StartTime: types.TimeString("10:00"), EndTime: types.TimeString("10:30"), Capacity: 4},
			{ID: 2, EventID: req.EventID, StartTime: types.TimeString("10:30"), EndTime: types.TimeString("11:00"), Capacity: 4},
		},
	}, nil
}

func serve(uc GenerateSlotsUseCase, target, body string) *httptest.ResponseRecorder {
	h := NewHandler(uc, logger.Nop())
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/events/{eventId}/generate-slots", h.Handle).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/generate-slots", h.Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{AgentID: 7, Role: domain.RoleAgent}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_PathForm(t *testing.T) {
	uc := &fakeUseCase{}
	rec := serve(uc, "/api/v1/events/3/generate-slots", "")

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(3), uc.got.EventID)
	assert.Equal(t, int64(7), uc.got.Actor.AgentID)

	var resp GenerateSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.SlotsCreated)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "10:30", resp.Slots[1].StartTime)
}

func TestHandle_BodyForm(t *testing.T) {
	uc := &fakeUseCase{}
	rec := serve(uc, "/api/v1/generate-slots", `{"eventId":9}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(9), uc.got.EventID)

	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{}, "/api/v1/generate-slots", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{}, "/api/v1/generate-slots", `{"eventId":"x"}`).Code)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: generateSlots.ErrInvalidInput, want: http.StatusBadRequest},
		{err: generateSlots.ErrEventNotFound, want: http.StatusNotFound},
		{err: generateSlots.ErrAccessDenied, want: http.StatusForbidden},
		{err: generateSlots.ErrEventHasBookings, want: http.StatusConflict},
		{err: errors.New("db"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := serve(&fakeUseCase{err: tt.err}, "/api/v1/events/3/generate-slots", "")
		assert.Equal(t, tt.want, rec.Code, tt.err.Error())
	}
}
