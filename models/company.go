package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Company struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name         string     `gorm:"not null" json:"name"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone"`
	CurrencyID   *uuid.UUID `gorm:"type:uuid;index" json:"currencyId"`
	WorkingHours JSONB      `gorm:"type:jsonb" json:"workingHours"`
	IsActive     bool       `gorm:"not null" json:"isActive"`

	Currency *Currency `gorm:"foreignKey:CurrencyID" json:"currency,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// DefaultWorkingHours is applied to companies registered without hours.
func DefaultWorkingHours() JSONB {
	return JSONB{
		"monday":    map[string]interface{}{"open": "07:00", "close": "19:00", "closed": false},
		"tuesday":   map[string]interface{}{"open": "07:00", "close": "19:00", "closed": false},
		"wednesday": map[string]interface{}{"open": "07:00", "close": "19:00", "closed": false},
		"thursday":  map[string]interface{}{"open": "07:00", "close": "19:00", "closed": false},
		"friday":    map[string]interface{}{"open": "07:00", "close": "19:00", "closed": false},
		"saturday":  map[string]interface{}{"open": "09:00", "close": "17:00", "closed": false},
		"sunday":    map[string]interface{}{"open": "10:00", "close": "16:00", "closed": true},
	}
}
