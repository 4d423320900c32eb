package domain

import "time"

// AgentOAuthToken is the Google credential of an agent used to send mail
// and create calendar events on their behalf
type AgentOAuthToken struct {
	AgentID      int64
	AccessToken  string
	RefreshToken string
	TokenType    string
	Expiry       time.Time
	UpdatedAt    time.Time
}
