package googleauth

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	oauthtokenRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/oauthtoken"
	"github.com/m04kA/SMC-OpenHouseService/pkg/logger"
)

type fakeOAuth struct {
	exchangeErr error
	onRefresh   func(*oauth2.Token)
}

func (f *fakeOAuth) AuthCodeURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + url.QueryEscape(state)
}

func (f *fakeOAuth) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &oauth2.Token{AccessToken: "access-" + code, RefreshToken: "refresh", Expiry: time.Date(2026, 10, 18, 13, 0, 0, 0, time.UTC)}, nil
}

func (f *fakeOAuth) TokenSource(_ context.Context, token *oauth2.Token, onRefresh func(*oauth2.Token)) oauth2.TokenSource {
	f.onRefresh = onRefresh
	return oauth2.StaticTokenSource(token)
}

type fakeTokenRepo struct {
	tokens  map[int64]*domain.AgentOAuthToken
	saveErr error
	getErr  error
}

func (r *fakeTokenRepo) Get(_ context.Context, agentID int64) (*domain.AgentOAuthToken, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	t, ok := r.tokens[agentID]
	if !ok {
		return nil, oauthtokenRepo.ErrTokenNotFound
	}
	return t, nil
}

func (r *fakeTokenRepo) Save(_ context.Context, token *domain.AgentOAuthToken) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.tokens[token.AgentID] = token
	return nil
}

var agent = domain.Actor{AgentID: 7, Role: domain.RoleAgent}

func newTestService() (*Service, *fakeOAuth, *fakeTokenRepo, *time.Time) {
	oauth := &fakeOAuth{}
	repo := &fakeTokenRepo{tokens: map[int64]*domain.AgentOAuthToken{}}
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	svc := NewService(oauth, repo, "state-secret", 10*time.Minute, "https://openhouse.example.com/dashboard", logger.Nop())
	svc.now = func() time.Time { return now }

	return svc, oauth, repo, &now
}

func stateFromURL(t *testing.T, raw string) string {
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query().Get("state")
}

func TestConnectAndCallback(t *testing.T) {
	svc, _, repo, _ := newTestService()

	consent, err := svc.ConnectURL(agent)
	require.NoError(t, err)

	resp, err := svc.Callback(context.Background(), "abc", stateFromURL(t, consent))
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.AgentID)
	assert.Equal(t, "https://openhouse.example.com/dashboard", resp.RedirectTo)

	stored := repo.tokens[7]
	require.NotNil(t, stored)
	assert.Equal(t, "access-abc", stored.AccessToken)
	assert.Equal(t, "refresh", stored.RefreshToken)
	assert.Equal(t, "Bearer", stored.TokenType)
}

func TestCallback_RejectsBadState(t *testing.T) {
	svc, _, repo, now := newTestService()

	consent, err := svc.ConnectURL(agent)
	require.NoError(t, err)
	state := stateFromURL(t, consent)

	other := NewService(&fakeOAuth{}, repo, "another-secret", time.Minute, "", logger.Nop())
	_, err = other.Callback(context.Background(), "abc", state)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.Callback(context.Background(), "abc", "garbage")
	assert.ErrorIs(t, err, ErrInvalidState)

	*now = now.Add(11 * time.Minute)
	_, err = svc.Callback(context.Background(), "abc", state)
	assert.ErrorIs(t, err, ErrInvalidState)

	assert.Empty(t, repo.tokens)
}

func TestCallback_Errors(t *testing.T) {
	svc, oauth, repo, _ := newTestService()
	consent, err := svc.ConnectURL(agent)
	require.NoError(t, err)
	state := stateFromURL(t, consent)

	_, err = svc.Callback(context.Background(), "  ", state)
	assert.ErrorIs(t, err, ErrInvalidInput)

	oauth.exchangeErr = errors.New("invalid_grant")
	_, err = svc.Callback(context.Background(), "abc", state)
	assert.ErrorIs(t, err, ErrUpstream)

	oauth.exchangeErr = nil
	repo.saveErr = errors.New("connection reset")
	_, err = svc.Callback(context.Background(), "abc", state)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestConnectURL_RequiresAgent(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.ConnectURL(domain.Actor{Role: domain.RoleAgent})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStatus(t *testing.T) {
	svc, _, repo, _ := newTestService()
	ctx := context.Background()

	resp, err := svc.Status(ctx, agent)
	require.NoError(t, err)
	assert.False(t, resp.Connected)
	assert.Nil(t, resp.Expiry)

	expiry := time.Date(2026, 10, 18, 13, 0, 0, 0, time.UTC)
	repo.tokens[7] = &domain.AgentOAuthToken{AgentID: 7, AccessToken: "a", RefreshToken: "r", Expiry: expiry}

	resp, err = svc.Status(ctx, agent)
	require.NoError(t, err)
	assert.True(t, resp.Connected)
	require.NotNil(t, resp.Expiry)
	assert.Equal(t, expiry, *resp.Expiry)

	repo.getErr = errors.New("timeout")
	_, err = svc.Status(ctx, agent)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestTokenSource(t *testing.T) {
	svc, oauth, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.TokenSource(ctx, 7)
	assert.ErrorIs(t, err, ErrNotConnected)

	repo.tokens[7] = &domain.AgentOAuthToken{AgentID: 7, AccessToken: "old", RefreshToken: "r", TokenType: "Bearer"}

	ts, err := svc.TokenSource(ctx, 7)
	require.NoError(t, err)

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "old", tok.AccessToken)

	require.NotNil(t, oauth.onRefresh)
	oauth.onRefresh(&oauth2.Token{AccessToken: "new", TokenType: "Bearer"})
	assert.Equal(t, "new", repo.tokens[7].AccessToken)
}
