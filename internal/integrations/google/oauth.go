package google

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"
)

// Scopes права, которые агент выдаёт сервису
var Scopes = []string{
	gmail.GmailSendScope,
	calendar.CalendarEventsScope,
}

// OAuth клиент OAuth 2.0 для аккаунтов Google агентов
type OAuth struct {
	cfg *oauth2.Config
}

// NewOAuth создает OAuth клиент.
// endpoint по умолчанию googleoauth.Endpoint, в тестах подменяется.
func NewOAuth(clientID, clientSecret, redirectURL string, endpoint *oauth2.Endpoint) *OAuth {
	ep := googleoauth.Endpoint
	if endpoint != nil {
		ep = *endpoint
	}
	return &OAuth{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       Scopes,
			Endpoint:     ep,
		},
	}
}

// AuthCodeURL ссылка на экран согласия.
// Offline-доступ и повторное согласие нужны, чтобы Google вернул refresh token.
func (o *OAuth) AuthCodeURL(state string) string {
	return o.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange обменивает код авторизации на токен
func (o *OAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := o.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchange, err)
	}
	return token, nil
}

// TokenSource возвращает источник токенов, который обновляет истёкший токен
// и передаёт каждый новый токен в onRefresh
func (o *OAuth) TokenSource(ctx context.Context, token *oauth2.Token, onRefresh func(*oauth2.Token)) oauth2.TokenSource {
	return &notifyingTokenSource{
		base:      o.cfg.TokenSource(ctx, token),
		last:      token.AccessToken,
		onRefresh: onRefresh,
	}
}

type notifyingTokenSource struct {
	base      oauth2.TokenSource
	onRefresh func(*oauth2.Token)

	mu   sync.Mutex
	last string
}

func (s *notifyingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token.AccessToken != s.last {
		s.last = token.AccessToken
		if s.onRefresh != nil {
			s.onRefresh(token)
		}
	}

	return token, nil
}
