package models

import (
	"time"

	"consign-backend/internal/commission"

	"github.com/shopspring/decimal"
)

type CaseStatus string

const (
	CaseIdle          CaseStatus = "idle"
	CaseInField       CaseStatus = "in-field"
	CaseRestockNeeded CaseStatus = "restock-needed"
)

func (s CaseStatus) Valid() bool {
	switch s {
	case CaseIdle, CaseInField, CaseRestockNeeded:
		return true
	}
	return false
}

// ConsignmentDays is how long a case stays with an agent before it is due back.
const ConsignmentDays = 60

// Case is a consignment kit. TotalValue is a cache of the item subtotals and is
// only ever written together with the items.
type Case struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	AgentID      *int             `json:"agent_id"`
	AgentName    string           `json:"agent_name,omitempty"`
	AgentContact string           `json:"agent_contact,omitempty"`
	Photo        string           `json:"photo,omitempty"`
	DeliveryDate time.Time        `json:"delivery_date"`
	ReturnDate   time.Time        `json:"return_date"`
	Status       CaseStatus       `json:"status"`
	TotalValue   decimal.Decimal  `json:"total_value"`
	Premium      bool             `json:"premium"`
	Commission   commission.Quote `json:"commission"`
	CreatedAt    time.Time        `json:"created_at"`
	Items        []CaseItem       `json:"items"`
}

// Decorate fills the read-side fields derived from TotalValue.
func (c *Case) Decorate() {
	c.Premium = commission.IsPremium(c.TotalValue)
	c.Commission = commission.Calculate(c.TotalValue)
	if c.Items == nil {
		c.Items = []CaseItem{}
	}
}

// CaseItem is a line item. PriceAtTime is the catalog price snapshot taken at
// assignment; name/category/photo reflect the current product.
type CaseItem struct {
	ID          int             `json:"id"`
	CaseID      int             `json:"case_id"`
	ProductID   int             `json:"product_id"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ProductName string          `json:"product_name,omitempty"`
	Category    Category        `json:"category,omitempty"`
	Photo       string          `json:"photo,omitempty"`
}

// ItemsTotal is the only derivation of a case total: sum of price_at_time x quantity.
func ItemsTotal(items []CaseItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.PriceAtTime.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

type CaseItemInput struct {
	ProductID int              `json:"product_id" validate:"required,min=1"`
	Quantity  int              `json:"quantity" validate:"required,min=1"`
	Price     *decimal.Decimal `json:"price"`
}

type CreateCaseRequest struct {
	Name    string          `json:"name" validate:"required"`
	AgentID *int            `json:"agent_id" validate:"omitempty,min=1"`
	Photo   string          `json:"photo"`
	Items   []CaseItemInput `json:"items" validate:"dive"`
}

// UpdateCaseRequest overwrites the scalar fields. Items == nil keeps the
// current line items; a non-nil (possibly empty) list replaces them.
type UpdateCaseRequest struct {
	Name    string           `json:"name" validate:"required"`
	AgentID *int             `json:"agent_id" validate:"omitempty,min=1"`
	Status  CaseStatus       `json:"status" validate:"required,oneof=idle in-field restock-needed"`
	Photo   *string          `json:"photo"`
	Items   *[]CaseItemInput `json:"items" validate:"omitempty,dive"`
}
