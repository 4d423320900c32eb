package google_auth

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers"
	"github.com/m04kA/SMC-OpenHouseService/internal/api/middleware"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/googleauth"
)

const (
	msgUnauthorized     = "autenticazione richiesta"
	msgConsentDenied    = "autorizzazione Google negata"
	msgInvalidState     = "richiesta di autorizzazione scaduta o non valida"
	msgMissingCode      = "codice di autorizzazione mancante"
	msgUpstream         = "impossibile completare l'autorizzazione con Google"
	msgAccountConnected = "account Google collegato"
)

// Handler подключение аккаунта Google агента
type Handler struct {
	service GoogleAuthService
	logger  Logger
}

func NewHandler(service GoogleAuthService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Connect GET /api/v1/auth/google
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	url, err := h.service.ConnectURL(actor)
	if err != nil {
		h.logger.Error("GET /auth/google - Failed to build consent URL: agent_id=%d, error=%v", actor.AgentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /auth/google - Redirecting to consent screen: agent_id=%d", actor.AgentID)
	http.Redirect(w, r, url, http.StatusFound)
}

// Callback GET /api/v1/auth/google/callback?code=&state=
// Агент определяется по подписанному state, а не по токену запроса
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if reason := query.Get("error"); reason != "" {
		h.logger.Warn("GET /auth/google/callback - Consent denied: reason=%s", reason)
		handlers.RespondBadRequest(w, msgConsentDenied)
		return
	}

	code := query.Get("code")
	if code == "" {
		handlers.RespondBadRequest(w, msgMissingCode)
		return
	}

	result, err := h.service.Callback(r.Context(), code, query.Get("state"))
	if err != nil {
		switch {
		case errors.Is(err, googleauth.ErrInvalidState):
			h.logger.Warn("GET /auth/google/callback - Invalid state: %v", err)
			handlers.RespondBadRequest(w, msgInvalidState)

		case errors.Is(err, googleauth.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgMissingCode)

		case errors.Is(err, googleauth.ErrUpstream):
			h.logger.Error("GET /auth/google/callback - Code exchange failed: %v", err)
			handlers.RespondError(w, http.StatusBadGateway, msgUpstream)

		default:
			h.logger.Error("GET /auth/google/callback - Failed to connect account: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /auth/google/callback - Account connected: agent_id=%d", result.AgentID)

	if result.RedirectTo != "" {
		http.Redirect(w, r, result.RedirectTo, http.StatusFound)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, handlers.MessageResponse{Message: msgAccountConnected})
}

// Status GET /api/v1/auth/google/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	status, err := h.service.Status(r.Context(), actor)
	if err != nil {
		h.logger.Error("GET /auth/google/status - Failed to get status: agent_id=%d, error=%v", actor.AgentID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, status)
}
