package googleauth

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

// OAuthProvider интерфейс OAuth клиента Google
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	TokenSource(ctx context.Context, token *oauth2.Token, onRefresh func(*oauth2.Token)) oauth2.TokenSource
}

// TokenRepository интерфейс хранилища токенов агентов
type TokenRepository interface {
	Get(ctx context.Context, agentID int64) (*domain.AgentOAuthToken, error)
	Save(ctx context.Context, token *domain.AgentOAuthToken) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
