package generate_slots

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.EventID <= 0 {
		return fmt.Errorf("%w: eventId must be positive", ErrInvalidInput)
	}
	return nil
}
