package create_booking

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.EventID <= 0 {
		return fmt.Errorf("%w: eventId must be positive", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotId must be positive", ErrInvalidInput)
	}

	if !req.PrivacyAccepted {
		return fmt.Errorf("%w: privacy policy must be accepted", ErrInvalidInput)
	}

	return validateClient(&req.Client)
}

func validateClient(c *ClientInfo) error {
	required := []struct {
		field string
		value string
		max   int
	}{
		{field: "nome", value: c.FirstName, max: domain.MaxNameLength},
		{field: "cognome", value: c.LastName, max: domain.MaxNameLength},
		{field: "email", value: c.Email, max: 255},
		{field: "telefono", value: c.Phone, max: domain.MaxPhoneLength},
	}

	for _, r := range required {
		value := strings.TrimSpace(r.value)
		if value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, r.field)
		}
		if utf8.RuneCountInString(value) > r.max {
			return fmt.Errorf("%w: %s is too long", ErrInvalidInput, r.field)
		}
	}

	if !isValidEmail(c.Email) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}

	if c.Message != nil && utf8.RuneCountInString(*c.Message) > domain.MaxMessageLength {
		return fmt.Errorf("%w: message must be at most %d characters", ErrInvalidInput, domain.MaxMessageLength)
	}

	return nil
}

// isValidEmail принимает только голый адрес вида user@domain.tld
func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}

// normalizeClient обрезает пробелы; регистр email сохраняется
func normalizeClient(c ClientInfo, privacyAccepted bool) *domain.Client {
	return &domain.Client{
		Email:           domain.NormalizeEmail(c.Email),
		FirstName:       strings.TrimSpace(c.FirstName),
		LastName:        strings.TrimSpace(c.LastName),
		Phone:           strings.TrimSpace(c.Phone),
		PrivacyAccepted: privacyAccepted,
	}
}

// normalizeMessage возвращает nil для пустого сообщения
func normalizeMessage(message *string) *string {
	if message == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*message)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
