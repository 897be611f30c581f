package models

import "time"

type MessageRequest struct {
	AgentID int    `json:"agent_id" validate:"required,min=1"`
	Message string `json:"message" validate:"required"`
	Photo   string `json:"photo"`
	PDF     string `json:"pdf"`
}

// MessagePreview acknowledges a message handed to the messaging provider.
type MessagePreview struct {
	AgentID   int       `json:"agent_id"`
	AgentName string    `json:"agent_name"`
	To        string    `json:"to"`
	DeepLink  string    `json:"deep_link"`
	Message   string    `json:"message"`
	HasPhoto  bool      `json:"has_photo"`
	HasPDF    bool      `json:"has_pdf"`
	Channel   string    `json:"channel"`
	Simulated bool      `json:"simulated"`
	SentAt    time.Time `json:"sent_at"`
}
