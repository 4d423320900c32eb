package list_agent_events

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers"
	"github.com/m04kA/SMC-OpenHouseService/internal/api/middleware"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/events"
)

const (
	msgUnauthorized = "autenticazione richiesta"
	msgInvalidAgent = "agente non valido"
)

type Handler struct {
	service EventService
	logger  Logger
}

func NewHandler(service EventService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/agents/me/events
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	resp, err := h.service.ListByAgent(r.Context(), actor)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrInvalidInput):
			h.logger.Warn("GET /agents/me/events - Invalid agent: agent_id=%d", actor.AgentID)
			handlers.RespondBadRequest(w, msgInvalidAgent)

		default:
			h.logger.Error("GET /agents/me/events - Failed to list events: agent_id=%d, error=%v", actor.AgentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /agents/me/events - Events retrieved successfully: agent_id=%d, count=%d", actor.AgentID, len(resp.Events))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
