package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Space struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID   uuid.UUID `gorm:"type:uuid;index;not null" json:"companyId"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Capacity    int       `gorm:"default:1" json:"capacity"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	Priority    int       `gorm:"default:0" json:"priority"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Space) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
