package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Agent is a field sales agent. TotalSales is derived at read time.
type Agent struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Contact    string          `json:"contact"`
	TotalSales decimal.Decimal `json:"total_sales"`
	CreatedAt  time.Time       `json:"created_at"`
}

type AgentRequest struct {
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact" validate:"required"`
}
