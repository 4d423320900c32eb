package googleauth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	oauthtokenRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/oauthtoken"
	"github.com/m04kA/SMC-OpenHouseService/internal/integrations/google"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/googleauth/models"
)

const stateAudience = "google-oauth"

// Service подключение аккаунтов Google агентов и выдача их токенов
type Service struct {
	oauth      OAuthProvider
	tokenRepo  TokenRepository
	secret     []byte
	stateTTL   time.Duration
	successURL string
	now        func() time.Time
	logger     Logger
}

// NewService создает новый экземпляр сервиса.
// secret подписывает state, stateTTL ограничивает время прохождения согласия.
func NewService(
	oauth OAuthProvider,
	tokenRepo TokenRepository,
	secret string,
	stateTTL time.Duration,
	successURL string,
	logger Logger,
) *Service {
	return &Service{
		oauth:      oauth,
		tokenRepo:  tokenRepo,
		secret:     []byte(secret),
		stateTTL:   stateTTL,
		successURL: successURL,
		now:        time.Now,
		logger:     logger,
	}
}

// ConnectURL возвращает ссылку на экран согласия Google для агента
func (s *Service) ConnectURL(actor domain.Actor) (string, error) {
	if actor.AgentID <= 0 {
		return "", fmt.Errorf("%w: agent id is required", ErrInvalidInput)
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(actor.AgentID, 10),
		Audience:  jwt.ClaimStrings{stateAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.stateTTL)),
	}

	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.logger.Error("ConnectURL: failed to sign state for agent=%d: %v", actor.AgentID, err)
		return "", fmt.Errorf("%w: ConnectURL - sign state: %v", ErrInternal, err)
	}

	s.logger.Info("ConnectURL: agent=%d is connecting google account", actor.AgentID)
	return s.oauth.AuthCodeURL(state), nil
}

// Callback обменивает код авторизации на токен и сохраняет его за агентом из state
func (s *Service) Callback(ctx context.Context, code, state string) (*models.CallbackResponse, error) {
	agentID, err := s.parseState(state)
	if err != nil {
		s.logger.Warn("Callback: rejected state: %v", err)
		return nil, err
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("Callback: code exchange failed for agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: Callback - exchange: %v", ErrUpstream, err)
	}

	if err := s.tokenRepo.Save(ctx, google.FromOAuth2Token(agentID, token)); err != nil {
		s.logger.Error("Callback: failed to save token for agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: Callback - save token: %v", ErrInternal, err)
	}

	s.logger.Info("Callback: google account connected for agent=%d", agentID)
	return &models.CallbackResponse{AgentID: agentID, RedirectTo: s.successURL}, nil
}

// Status сообщает, подключен ли аккаунт Google агента
func (s *Service) Status(ctx context.Context, actor domain.Actor) (*models.StatusResponse, error) {
	token, err := s.tokenRepo.Get(ctx, actor.AgentID)
	if err != nil {
		if errors.Is(err, oauthtokenRepo.ErrTokenNotFound) {
			return &models.StatusResponse{Connected: false}, nil
		}
		s.logger.Error("Status: failed to get token for agent=%d: %v", actor.AgentID, err)
		return nil, fmt.Errorf("%w: Status - repository error: %v", ErrInternal, err)
	}

	resp := &models.StatusResponse{Connected: token.RefreshToken != "" || token.AccessToken != ""}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		resp.Expiry = &expiry
	}
	return resp, nil
}

// TokenSource возвращает источник токенов агента.
// Обновлённые токены сохраняются обратно в хранилище.
func (s *Service) TokenSource(ctx context.Context, agentID int64) (oauth2.TokenSource, error) {
	stored, err := s.tokenRepo.Get(ctx, agentID)
	if err != nil {
		if errors.Is(err, oauthtokenRepo.ErrTokenNotFound) {
			return nil, ErrNotConnected
		}
		s.logger.Error("TokenSource: failed to get token for agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: TokenSource - repository error: %v", ErrInternal, err)
	}

	onRefresh := func(token *oauth2.Token) {
		// Запрос мог уже завершиться, токен сохраняем в любом случае
		saveCtx := context.WithoutCancel(ctx)
		if err := s.tokenRepo.Save(saveCtx, google.FromOAuth2Token(agentID, token)); err != nil {
			s.logger.Error("TokenSource: failed to persist refreshed token for agent=%d: %v", agentID, err)
			return
		}
		s.logger.Info("TokenSource: refreshed token saved for agent=%d", agentID)
	}

	return s.oauth.TokenSource(ctx, google.ToOAuth2Token(stored), onRefresh), nil
}

func (s *Service) parseState(state string) (int64, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(state, &claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(stateAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	agentID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || agentID <= 0 {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidState)
	}
	return agentID, nil
}
