package google_auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/middleware"
	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/googleauth"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/googleauth/models"
	"github.com/m04kA/SMC-OpenHouseService/pkg/logger"
)

type fakeService struct {
	gotCode, gotState string
	redirectTo        string
	err               error
}

func (f *fakeService) ConnectURL(actor domain.Actor) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://accounts.google.com/o/oauth2/auth?state=agent-7", nil
}

func (f *fakeService) Callback(_ context.Context, code, state string) (*models.CallbackResponse, error) {
	f.gotCode, f.gotState = code, state
	if f.err != nil {
		return nil, f.err
	}
	return &models.CallbackResponse{AgentID: 7, RedirectTo: f.redirectTo}, nil
}

func (f *fakeService) Status(_ context.Context, actor domain.Actor) (*models.StatusResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	expiry := time.Date(2026, 10, 18, 13, 0, 0, 0, time.UTC)
	return &models.StatusResponse{Connected: true, Expiry: &expiry}, nil
}

func withAgent(r *http.Request) *http.Request {
	return r.WithContext(middleware.WithActor(r.Context(), domain.Actor{AgentID: 7, Role: domain.RoleAgent}))
}

func TestConnect(t *testing.T) {
	h := NewHandler(&fakeService{}, logger.Nop())

	rec := httptest.NewRecorder()
	h.Connect(rec, withAgent(httptest.NewRequest(http.MethodGet, "/api/v1/auth/google", nil)))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "accounts.google.com")

	rec = httptest.NewRecorder()
	h.Connect(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCallback(t *testing.T) {
	svc := &fakeService{redirectTo: "https://dashboard.example.com/settings"}
	h := NewHandler(svc, logger.Nop())

	rec := httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?code=abc&state=xyz", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://dashboard.example.com/settings", rec.Header().Get("Location"))
	assert.Equal(t, "abc", svc.gotCode)
	assert.Equal(t, "xyz", svc.gotState)

	rec = httptest.NewRecorder()
	NewHandler(&fakeService{}, logger.Nop()).Callback(rec,
		httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?code=abc&state=xyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), msgAccountConnected)
}

func TestCallback_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{name: "consent denied", target: "/cb?error=access_denied", want: http.StatusBadRequest},
		{name: "missing code", target: "/cb?state=xyz", want: http.StatusBadRequest},
		{name: "bad state", target: "/cb?code=a&state=b", err: googleauth.ErrInvalidState, want: http.StatusBadRequest},
		{name: "exchange failed", target: "/cb?code=a&state=b", err: googleauth.ErrUpstream, want: http.StatusBadGateway},
		{name: "storage", target: "/cb?code=a&state=b", err: googleauth.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHandler(&fakeService{err: tt.err}, logger.Nop()).Callback(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(&fakeService{}, logger.Nop()).Status(rec, withAgent(httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/status", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"connected":true`)
	assert.Contains(t, rec.Body.String(), `"expiry":"2026-10-18T13:00:00Z"`)

	rec = httptest.NewRecorder()
	NewHandler(&fakeService{err: errors.New("db")}, logger.Nop()).Status(rec, withAgent(httptest.NewRequest(http.MethodGet, "/x", nil)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
