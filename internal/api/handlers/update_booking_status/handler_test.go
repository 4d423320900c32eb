package update_booking_status

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
	"github.com/m04kA/SMC-OpenHouseService/internal/service/bookings"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/bookings/models"
	"github.com/m04kA/SMC-OpenHouseService/pkg/logger"
)

type fakeService struct {
	got *models.UpdateStatusRequest
	err error
}

func (f *fakeService) UpdateStatus(_ context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: bookingID, Status: req.Status, DisplayStatus: req.Status}, nil
}

func serve(svc BookingService, path, body string, withActor bool) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/bookings/{bookingId}/status", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodPatch)

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
	rec := serve(svc, "/api/v1/bookings/42/status", `{"status":"no_show"}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no_show", svc.got.Status)
	assert.Equal(t, int64(7), svc.got.Actor.AgentID)
	assert.Contains(t, rec.Body.String(), `"displayStatus":"no_show"`)
}

func TestHandle_Errors(t *testing.T) {
	body := `{"status":"completed"}`
	path := "/api/v1/bookings/42/status"

	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "/api/v1/bookings/0/status", body, true).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(&fakeService{}, path, body, false).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, path, `{"status":`, true).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{err: bookings.ErrInvalidInput}, path, body, true).Code)
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: bookings.ErrBookingNotFound}, path, body, true).Code)
	assert.Equal(t, http.StatusForbidden, serve(&fakeService{err: bookings.ErrAccessDenied}, path, body, true).Code)
	assert.Equal(t, http.StatusConflict, serve(&fakeService{err: bookings.ErrInvalidTransition}, path, body, true).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: errors.New("db")}, path, body, true).Code)
}
