package update_event_status

import (
	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/events/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(actor domain.Actor) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		Actor:  actor,
		Status: r.Status,
	}
}
