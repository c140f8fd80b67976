package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID   uuid.UUID `gorm:"type:uuid;index;not null" json:"companyId"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	SKU         string    `gorm:"index" json:"sku"`
	BasePrice   float64   `gorm:"type:decimal(10,2);default:0" json:"basePrice"`
	Unit        string    `json:"unit"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	Priority    int       `gorm:"default:0" json:"priority"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// ProductVariant is a sellable configuration of a product. Attributes holds
// things like size, colour or "volume" ("30ml").
type ProductVariant struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	ProductID  uuid.UUID         `gorm:"type:uuid;index;not null" json:"productId"`
	Name       string            `json:"name"`
	SKU        string            `json:"sku"`
	Price      float64           `gorm:"type:decimal(10,2);default:0" json:"price"`
	Stock      int               `gorm:"default:0" json:"stock"`
	IsActive   bool              `gorm:"not null" json:"isActive"`
	Attributes datatypes.JSONMap `json:"attributes"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}

// Attribute returns a variant attribute rendered as a string, or "".
func (v ProductVariant) Attribute(name string) string {
	raw, ok := v.Attributes[name]
	if !ok || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}
