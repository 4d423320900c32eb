package get_event_bookings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/middleware"
	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/bookings"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/bookings/models"
	"github.com/m04kA/SMC-OpenHouseService/pkg/logger"
)

type fakeService struct {
	got *models.ListEventBookingsRequest
	err error
}

func (f *fakeService) ListEventBookings(_ context.Context, req *models.ListEventBookingsRequest) (*models.BookingListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 1, Status: "confirmed"}}}, nil
}

func serve(svc BookingService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/events/{eventId}/bookings", NewHandler(svc, logger.Nop()).Handle)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{AgentID: 7, Role: domain.RoleAgent}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Filters(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "/api/v1/events/3/bookings?status=no_show&includeCancelled=true")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bookings":[`)
	assert.Equal(t, int64(3), svc.got.EventID)
	require.NotNil(t, svc.got.Status)
	assert.Equal(t, "no_show", *svc.got.Status)
	assert.True(t, svc.got.IncludeCancelled)

	svc = &fakeService{}
	require.Equal(t, http.StatusOK, serve(svc, "/api/v1/events/3/bookings").Code)
	assert.Nil(t, svc.got.Status)
	assert.False(t, svc.got.IncludeCancelled)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "/api/v1/events/3/bookings?includeCancelled=maybe").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "/api/v1/events/abc/bookings").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{err: bookings.ErrInvalidInput}, "/api/v1/events/3/bookings?status=x").Code)
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: bookings.ErrEventNotFound}, "/api/v1/events/3/bookings").Code)
	assert.Equal(t, http.StatusForbidden, serve(&fakeService{err: bookings.ErrAccessDenied}, "/api/v1/events/3/bookings").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: errors.New("db")}, "/api/v1/events/3/bookings").Code)
}
