package google

import (
	"golang.org/x/oauth2"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

// Email письмо в формате HTML
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Attendee участник события календаря
type Attendee struct {
	Email       string
	DisplayName string
}

// OpenHouseEventData данные для события в календаре агента
type OpenHouseEventData struct {
	Summary     string
	Description string
	Location    string
	Date        string // "2025-10-15"
	StartTime   string // "10:00"
	EndTime     string // "10:30"
	Attendees   []Attendee
}

// CalendarEvent созданное событие
type CalendarEvent struct {
	ID   string
	Link string
}

// ToOAuth2Token конвертирует сохранённый токен агента
func ToOAuth2Token(t *domain.AgentOAuthToken) *oauth2.Token {
	if t == nil {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

// FromOAuth2Token конвертирует токен Google в доменную модель
func FromOAuth2Token(agentID int64, t *oauth2.Token) *domain.AgentOAuthToken {
	if t == nil {
		return nil
	}
	tokenType := t.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &domain.AgentOAuthToken{
		AgentID:      agentID,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    tokenType,
		Expiry:       t.Expiry,
	}
}
