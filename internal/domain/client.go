package domain

import (
	"strings"
	"time"
)

// Client is a prospective buyer, identified by e-mail
type Client struct {
	ID              int64
	Email           string
	FirstName       string
	LastName        string
	Phone           string
	PrivacyAccepted bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FullName returns "FirstName LastName"
func (c *Client) FullName() string {
	return joinName(c.FirstName, c.LastName)
}

// NormalizeEmail trims surrounding whitespace. Case is kept: the e-mail is the
// client's exact-match key, so "Mario.Rossi@Example.com" and "mario.rossi@example.com"
// are two different clients.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
