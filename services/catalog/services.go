package catalog

import (
	"context"

	"github.com/google/uuid"

	"bookpos-backend/models"
)

// ServiceInput carries a partial service update; nil fields are left alone.
type ServiceInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Duration    *int     `json:"duration" binding:"omitempty,gt=0"`
	Category    *string  `json:"category"`
	IsActive    *bool    `json:"isActive"`
	Priority    *int     `json:"priority"`
}

func (in ServiceInput) apply(s *models.Service) {
	if in.Name != nil {
		s.Name = *in.Name
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.Price != nil {
		s.Price = *in.Price
	}
	if in.Duration != nil {
		s.Duration = *in.Duration
	}
	if in.Category != nil {
		s.Category = *in.Category
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	if in.Priority != nil {
		s.Priority = *in.Priority
	}
}

func (c *Catalog) CreateService(ctx context.Context, companyID uuid.UUID, in ServiceInput) (*models.Service, error) {
	svc := models.Service{CompanyID: companyID, Category: "General", IsActive: true}
	in.apply(&svc)
	if err := c.db.WithContext(ctx).Create(&svc).Error; err != nil {
		return nil, err
	}
	c.invalidate(ctx, companyID)
	return &svc, nil
}

func (c *Catalog) UpdateService(ctx context.Context, companyID, id uuid.UUID, in ServiceInput) (*models.Service, error) {
	svc, err := c.GetService(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	in.apply(svc)
	if err := c.db.WithContext(ctx).Save(svc).Error; err != nil {
		return nil, err
	}
	c.invalidate(ctx, companyID)
	return svc, nil
}

func (c *Catalog) DeleteService(ctx context.Context, companyID, id uuid.UUID) error {
	res := c.db.WithContext(ctx).Where("id = ? AND company_id = ?", id, companyID).Delete(&models.Service{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	c.invalidate(ctx, companyID)
	return nil
}

func (c *Catalog) invalidate(ctx context.Context, companyID uuid.UUID) {
	// best effort; a stale page expires with its TTL
	_ = c.Invalidate(ctx, companyID)
}
