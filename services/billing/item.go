// Package billing turns catalog selections into bill lines and reduces them
// into totals.
package billing

import (
	"github.com/google/uuid"
)

type Kind string

const (
	KindProduct Kind = "product"
	KindService Kind = "service"
)

// Item is a single chargeable line. UnitPrice is always the price of one unit
// of Quantity. For volume variants DisplayPrice carries the full variant price
// shown to people while UnitPrice holds the per-unit figure used for totals.
type Item struct {
	ID              string     `json:"id"`
	Kind            Kind       `json:"kind"`
	ProductID       *uuid.UUID `json:"productId,omitempty"`
	VariantID       *uuid.UUID `json:"variantId,omitempty"`
	ServiceID       *uuid.UUID `json:"serviceId,omitempty"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Quantity        float64    `json:"quantity"`
	UnitPrice       float64    `json:"unitPrice"`
	DiscountPercent float64    `json:"discountPercent"`
	Unit            string     `json:"unit,omitempty"`
	DisplayPrice    *float64   `json:"displayPrice,omitempty"`
}

// Gross is quantity times unit price before discount.
func (i Item) Gross() float64 {
	return i.Quantity * i.UnitPrice
}

// Discount is the amount taken off the line.
func (i Item) Discount() float64 {
	return i.Gross() * (i.DiscountPercent / 100)
}

// LineTotal is the discounted line amount, never negative.
func (i Item) LineTotal() float64 {
	total := i.Gross() * (1 - i.DiscountPercent/100)
	if total < 0 {
		return 0
	}
	return total
}

// Price is the figure to show next to the line.
func (i Item) Price() float64 {
	if i.DisplayPrice != nil {
		return *i.DisplayPrice
	}
	return i.UnitPrice
}

func newItemID() string {
	return uuid.NewString()
}

func ptr[T any](v T) *T {
	return &v
}
