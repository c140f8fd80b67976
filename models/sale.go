package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Sale struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"companyId"`
	AppointmentID   *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_sales_appointment,where:deleted_at IS NULL" json:"appointmentId,omitempty"`
	ClientID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"clientId"`
	CreatedByUserID *uuid.UUID `gorm:"type:uuid" json:"createdByUserId,omitempty"`

	SaleNumber string    `gorm:"uniqueIndex;not null" json:"saleNumber"`
	SaleDate   time.Time `json:"saleDate"`

	Subtotal       float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DiscountAmount float64 `gorm:"type:decimal(10,2);default:0" json:"discountAmount"`
	Total          float64 `gorm:"type:decimal(10,2);not null" json:"total"`

	Status        string `gorm:"type:varchar(30)" json:"status"`
	PaymentStatus string `gorm:"type:varchar(20);default:'Pending'" json:"paymentStatus"`
	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// SaleItem is the persisted form of a billing line.
type SaleItem struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	SaleID          uuid.UUID  `gorm:"type:uuid;index;not null" json:"saleId"`
	Kind            string     `gorm:"type:varchar(10);not null" json:"kind"`
	ProductID       *uuid.UUID `gorm:"type:uuid;index" json:"productId,omitempty"`
	VariantID       *uuid.UUID `gorm:"type:uuid" json:"variantId,omitempty"`
	ServiceID       *uuid.UUID `gorm:"type:uuid;index" json:"serviceId,omitempty"`
	Name            string     `gorm:"not null" json:"name"`
	Description     string     `json:"description"`
	Quantity        float64    `gorm:"type:decimal(10,3);not null" json:"quantity"`
	UnitPrice       float64    `gorm:"type:decimal(12,6);not null" json:"unitPrice"`
	DiscountPercent float64    `gorm:"type:decimal(5,2);default:0" json:"discountPercent"`
	Unit            string     `json:"unit,omitempty"`
	DisplayPrice    *float64   `gorm:"type:decimal(10,2)" json:"displayPrice,omitempty"`
	LineTotal       float64    `gorm:"type:decimal(10,2);not null" json:"lineTotal"`
}

func (i *SaleItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
