package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers"
	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

const (
	msgUnauthorized = "autenticazione richiesta"
	msgForbidden    = "accesso negato"
)

type actorKey struct{}

// Claims содержимое JWT сессии сотрудника агентства
type Claims struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"nome"`
	LastName  string `json:"cognome"`
	jwt.RegisteredClaims
}

// Actor конвертирует claims в доменную модель
func (c *Claims) Actor() (domain.Actor, error) {
	agentID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || agentID <= 0 {
		return domain.Actor{}, fmt.Errorf("invalid subject %q", c.Subject)
	}

	role := domain.Role(strings.ToLower(c.Role))
	if !role.IsValid() {
		return domain.Actor{}, fmt.Errorf("invalid role %q", c.Role)
	}

	return domain.Actor{
		AgentID:   agentID,
		Email:     c.Email,
		Role:      role,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	}, nil
}

// Auth проверяет Bearer токен (HS256) и кладёт Actor в контекст
func Auth(secret string, logger Logger) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			actor, err := ParseToken(strings.TrimPrefix(header, "Bearer "), key)
			if err != nil {
				logger.Warn("Auth: rejected token for %s %s: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// ParseToken проверяет подпись и срок действия токена
func ParseToken(token string, secret []byte) (domain.Actor, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return domain.Actor{}, err
	}
	return claims.Actor()
}

// RequireRole пропускает только перечисленные роли. Ставится после Auth.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActor(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}
			if _, ok := allowed[actor.Role]; !ok {
				handlers.RespondForbidden(w, msgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithActor кладёт Actor в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor достаёт Actor из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}
