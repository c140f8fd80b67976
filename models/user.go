package models

import (
	"bookpos-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCompanyOwner = "company_owner"
	RoleStaff        = "staff"
	RoleClient       = "client"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `gorm:"not null" json:"name"`
	Phone    string    `json:"phone"`

	Role      string    `gorm:"type:varchar(20);not null" json:"role"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null" json:"companyId"`

	LastLogin *time.Time `json:"lastLogin,omitempty"`
	IsActive  bool       `gorm:"not null" json:"isActive"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Initialize UUID and hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
