package models

import "github.com/shopspring/decimal"

// ScannedItem is a candidate line item extracted from photos or text.
type ScannedItem struct {
	Name     string          `json:"name"`
	Category Category        `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// ScanMatch pairs a scanned item with the catalog product of the same name.
// ProductID is 0 when nothing matched.
type ScanMatch struct {
	ScannedItem
	ProductID int  `json:"product_id"`
	Matched   bool `json:"matched"`
}

type ScanTextRequest struct {
	Text string `json:"text" validate:"required"`
}

// ScanImage is one uploaded photo handed to the scanner.
type ScanImage struct {
	MimeType string
	Data     []byte
}
