package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	VGV          decimal.Decimal `json:"vgv"`
	InFieldCount int             `json:"in_field_count"`
	PremiumCount int             `json:"premium_count"`
	AgentCount   int             `json:"agent_count"`
	Ranking      []AgentSales    `json:"ranking"`
}

// AgentSales is one agent's row in the sales ranking.
type AgentSales struct {
	AgentID     int             `json:"agent_id"`
	AgentName   string          `json:"agent_name"`
	CaseTotal   decimal.Decimal `json:"case_total"`
	ManualTotal decimal.Decimal `json:"manual_total"`
	Total       decimal.Decimal `json:"total"`
}

type CommissionReport struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Agents      []AgentCommission  `json:"agents"`
	Items       []CommissionedItem `json:"items"`
	TotalPayout decimal.Decimal    `json:"total_payout"`
}

type AgentCommission struct {
	AgentID          int             `json:"agent_id"`
	AgentName        string          `json:"agent_name"`
	CaseSales        decimal.Decimal `json:"case_sales"`
	Rate             decimal.Decimal `json:"rate"`
	CasePayout       decimal.Decimal `json:"case_payout"`
	ManualSales      decimal.Decimal `json:"manual_sales"`
	ManualCommission decimal.Decimal `json:"manual_commission"`
	TotalPayout      decimal.Decimal `json:"total_payout"`
}

const (
	SourceCase   = "case"
	SourceManual = "manual"
)

// CommissionedItem is one line of the commissioned-items report.
type CommissionedItem struct {
	Source      string          `json:"source"`
	CaseID      *int            `json:"case_id,omitempty"`
	CaseName    string          `json:"case_name,omitempty"`
	AgentID     *int            `json:"agent_id"`
	AgentName   string          `json:"agent_name"`
	ProductName string          `json:"product_name"`
	Category    Category        `json:"category,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Date        time.Time       `json:"date"`
}
