package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ManualCommission is a one-off commission entered directly, outside any case.
type ManualCommission struct {
	ID              int             `json:"id"`
	AgentID         *int            `json:"agent_id"`
	AgentName       string          `json:"agent_name"`
	ProductName     string          `json:"product_name"`
	Price           decimal.Decimal `json:"price"`
	CommissionValue decimal.Decimal `json:"commission_value"`
	CreatedAt       time.Time       `json:"created_at"`
}

type ManualCommissionRequest struct {
	AgentID         int              `json:"agent_id" validate:"required,min=1"`
	ProductName     string           `json:"product_name" validate:"required"`
	Price           *decimal.Decimal `json:"price" validate:"required"`
	CommissionValue *decimal.Decimal `json:"commission_value" validate:"required"`
}
