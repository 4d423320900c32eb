package models

import "time"

// StatusResponse состояние подключения аккаунта Google агента
type StatusResponse struct {
	Connected bool       `json:"connected"`
	Expiry    *time.Time `json:"expiry,omitempty"`
}

// CallbackResponse результат подключения аккаунта
type CallbackResponse struct {
	AgentID    int64  `json:"agentId"`
	RedirectTo string `json:"-"`
}
