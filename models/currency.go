package models

import (
	"bookpos-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Currency describes how amounts are displayed for a company.
// Rounding is the increment amounts snap to, e.g. 0.05 for nickel rounding.
type Currency struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Code     string    `gorm:"size:3;uniqueIndex;not null" json:"code"`
	Name     string    `json:"name"`
	Symbol   string    `gorm:"not null" json:"symbol"`
	Decimals int       `gorm:"not null" json:"decimals"`
	Rounding float64   `gorm:"type:decimal(10,4);default:0.01" json:"rounding"`
	IsActive bool      `gorm:"not null" json:"isActive"`
}

func (c *Currency) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// Format returns the display descriptor for c; nil yields nil so callers
// fall back to the default format.
func (c *Currency) Format() *utils.CurrencyFormat {
	if c == nil {
		return nil
	}
	return &utils.CurrencyFormat{Symbol: c.Symbol, Decimals: c.Decimals, Rounding: c.Rounding}
}

// FormatAmount renders amount in c, or in the default format when c is nil.
func (c *Currency) FormatAmount(amount float64) string {
	return utils.FormatCurrency(amount, c.Format())
}
