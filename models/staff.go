package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Staff is a bookable team member. UserID links the member to a login when
// they have one.
type Staff struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID uuid.UUID  `gorm:"type:uuid;index;not null" json:"companyId"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"userId,omitempty"`
	Name      string     `gorm:"not null" json:"name"`
	Title     string     `json:"title"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	IsActive  bool       `gorm:"not null" json:"isActive"`
	Priority  int        `gorm:"default:0" json:"priority"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Staff) TableName() string { return "staff" }

func (s *Staff) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
