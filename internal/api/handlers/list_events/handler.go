package list_events

import (
	"net/http"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers"
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

// Handle GET /api/v1/events
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListPublic(r.Context())
	if err != nil {
		h.logger.Error("GET /events - Failed to list events: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /events - Events retrieved successfully: count=%d", len(resp.Events))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
