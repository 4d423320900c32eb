package get_event_bookings

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	"github.com/m04kA/SMC-OpenHouseService/internal/service/bookings/models"
)

// ToServiceRequest создает запрос сервиса из query параметров status и includeCancelled
func ToServiceRequest(r *http.Request, eventID int64, actor domain.Actor) (*models.ListEventBookingsRequest, error) {
	req := &models.ListEventBookingsRequest{
		Actor:   actor,
		EventID: eventID,
	}

	query := r.URL.Query()
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := query.Get("includeCancelled"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.IncludeCancelled = include
	}

	return req, nil
}
