package update_event

import (
	"context"
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
	"github.com/m04kA/SMC-OpenHouseService/internal/service/events"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/events/models"
	"github.com/m04kA/SMC-OpenHouseService/pkg/logger"
)

type fakeService struct {
	gotID int64
	got   *models.UpdateEventRequest
	err   error
}

func (f *fakeService) Update(_ context.Context, eventID int64, req *models.UpdateEventRequest) (*models.EventResponse, error) {
	f.gotID = eventID
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return (&models.EventResponse{ID: eventID, SlotDuration: 30}).WithSlots([]*domain.TimeSlot{
		{ID: 1, StartTime: "10:00", EndTime: "10:30", Capacity: 2},
		{ID: 2, StartTime: "10:30", EndTime: "11:00", Capacity: 2},
	}), nil
}

func serve(svc EventService, path, body string, withActor bool) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/events/{eventId}", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	if withActor {
		req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{AgentID: 7, Role: domain.RoleAgent}))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "/api/v1/events/3", `{"endTime":"11:00","slotDuration":30,"maxParticipants":2}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), svc.gotID)
	assert.Equal(t, int64(7), svc.got.Actor.AgentID)
	require.NotNil(t, svc.got.EndTime)
	assert.Equal(t, "11:00", *svc.got.EndTime)
	assert.Equal(t, 30, *svc.got.SlotDuration)
	assert.Nil(t, svc.got.StartTime)
	assert.Nil(t, svc.got.IsActive)
	assert.Contains(t, rec.Body.String(), `"startTime":"10:30"`)
}

func TestHandle_ToggleActive(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "/api/v1/events/3", `{"isActive":false}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got.IsActive)
	assert.False(t, *svc.got.IsActive)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: events.ErrInvalidInput, want: http.StatusBadRequest},
		{err: events.ErrInvalidTimeRange, want: http.StatusBadRequest},
		{err: events.ErrInvalidEventDate, want: http.StatusBadRequest},
		{err: events.ErrEventNotFound, want: http.StatusNotFound},
		{err: events.ErrAccessDenied, want: http.StatusForbidden},
		{err: events.ErrInvalidTransition, want: http.StatusConflict},
		{err: events.ErrEventHasBookings, want: http.StatusConflict},
		{err: errors.New("db"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, serve(&fakeService{err: tt.err}, "/api/v1/events/3", `{"note":"x"}`, true).Code, tt.err.Error())
	}

	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "/api/v1/events/0", `{}`, true).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "/api/v1/events/3", `{"unknown":1}`, true).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(&fakeService{}, "/api/v1/events/3", `{}`, false).Code)
}
