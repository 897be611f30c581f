package scanner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"consign-backend/internal/models"

	"github.com/shopspring/decimal"
)

// ErrMalformed wraps every reason a model response is rejected.
var ErrMalformed = errors.New("scanner: malformed response")

type rawItem struct {
	Name     *string      `json:"name"`
	Category *string      `json:"category"`
	Price    *json.Number `json:"price"`
	Quantity *json.Number `json:"quantity"`
}

// ParseItems decodes a JSON array of line items and validates every field.
// Any problem fails the whole response; nothing is dropped silently.
func ParseItems(raw string) ([]models.ScannedItem, error) {
	raw = stripCodeFence(raw)

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var items []rawItem
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after array", ErrMalformed)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: expected an array", ErrMalformed)
	}

	out := make([]models.ScannedItem, 0, len(items))
	for i, it := range items {
		item, err := it.validate()
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformed, i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (it rawItem) validate() (models.ScannedItem, error) {
	var item models.ScannedItem

	if it.Name == nil || strings.TrimSpace(*it.Name) == "" {
		return item, errors.New("name is required")
	}
	item.Name = strings.TrimSpace(*it.Name)

	if it.Category == nil {
		return item, errors.New("category is required")
	}
	item.Category = models.Category(strings.ToLower(strings.TrimSpace(*it.Category)))
	if !item.Category.Valid() {
		return item, fmt.Errorf("unknown category %q", *it.Category)
	}

	if it.Price == nil {
		return item, errors.New("price is required")
	}
	price, err := decimal.NewFromString(it.Price.String())
	if err != nil {
		return item, fmt.Errorf("invalid price %q", it.Price.String())
	}
	if price.IsNegative() {
		return item, errors.New("price must not be negative")
	}
	item.Price = price.Round(2)

	if it.Quantity == nil {
		return item, errors.New("quantity is required")
	}
	qty, err := it.Quantity.Int64()
	if err != nil {
		return item, fmt.Errorf("invalid quantity %q", it.Quantity.String())
	}
	if qty < 1 {
		return item, errors.New("quantity must be at least 1")
	}
	item.Quantity = int(qty)

	return item, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
