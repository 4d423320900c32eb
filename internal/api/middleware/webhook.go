package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers"
)

// WebhookSecretHeader заголовок с общим секретом вебхука
const WebhookSecretHeader = "X-Webhook-Secret"

// WebhookSecret сверяет секрет в заголовке. Пустой секрет в конфиге закрывает вебхук.
func WebhookSecret(secret string, logger Logger) func(http.Handler) http.Handler {
	expected := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(strings.TrimSpace(r.Header.Get(WebhookSecretHeader)))
			if len(expected) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
				logger.Warn("WebhookSecret: rejected request to %s from %s", r.URL.Path, remoteHost(r))
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
