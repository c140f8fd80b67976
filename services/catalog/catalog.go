// Package catalog serves the company-scoped lists the booking and billing
// flows pick from: services, products and variants, spaces, staff, users and
// currencies.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookpos-backend/models"
)

var ErrNotFound = errors.New("record not found")

type Catalog struct {
	db          *gorm.DB
	cache       *Cache
	prioritized bool
}

// New builds a Catalog. prioritized selects priority ordering and should come
// from the schema probe done at startup.
func New(db *gorm.DB, cache *Cache, prioritized bool) *Catalog {
	return &Catalog{db: db, cache: cache, prioritized: prioritized}
}

func (c *Catalog) order() string {
	if c.prioritized {
		return "priority DESC, name ASC"
	}
	return "name ASC"
}

// Invalidate drops cached lists after a catalog write.
func (c *Catalog) Invalidate(ctx context.Context, companyID uuid.UUID) error {
	return c.cache.Invalidate(ctx, companyID)
}

func paginate[T any](q *gorm.DB, f Filter, order string, searchCols ...string) (Page[T], error) {
	if f.Search != "" && len(searchCols) > 0 {
		like := "%" + strings.ToLower(f.Search) + "%"
		clauses := make([]string, len(searchCols))
		args := make([]interface{}, len(searchCols))
		for i, col := range searchCols {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = like
		}
		q = q.Where(strings.Join(clauses, " OR "), args...)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Page[T]{}, err
	}
	items := make([]T, 0)
	if err := q.Order(order).Limit(f.Limit).Offset(f.Offset).Find(&items).Error; err != nil {
		return Page[T]{}, err
	}
	return Page[T]{
		Items: items,
		Pagination: Pagination{
			Total:   total,
			Limit:   f.Limit,
			Offset:  f.Offset,
			HasMore: int64(f.Offset+len(items)) < total,
		},
	}, nil
}

func (c *Catalog) scoped(ctx context.Context, model interface{}, companyID uuid.UUID) *gorm.DB {
	return c.db.WithContext(ctx).Model(model).Where("company_id = ?", companyID)
}

func (c *Catalog) ListServices(ctx context.Context, companyID uuid.UUID, f Filter) (Page[models.Service], error) {
	f = f.Normalize()
	return cached(ctx, c.cache, "services", companyID, f, func() (Page[models.Service], error) {
		return paginate[models.Service](c.scoped(ctx, &models.Service{}, companyID), f, c.order(), "name", "category")
	})
}

func (c *Catalog) ListSpaces(ctx context.Context, companyID uuid.UUID, f Filter) (Page[models.Space], error) {
	f = f.Normalize()
	return cached(ctx, c.cache, "spaces", companyID, f, func() (Page[models.Space], error) {
		return paginate[models.Space](c.scoped(ctx, &models.Space{}, companyID), f, c.order(), "name")
	})
}

// ListProducts returns products with their variants loaded.
func (c *Catalog) ListProducts(ctx context.Context, companyID uuid.UUID, f Filter) (Page[models.Product], error) {
	f = f.Normalize()
	page, err := paginate[models.Product](c.scoped(ctx, &models.Product{}, companyID), f, c.order(), "name", "sku")
	if err != nil || len(page.Items) == 0 {
		return page, err
	}

	ids := make([]uuid.UUID, len(page.Items))
	for i, p := range page.Items {
		ids[i] = p.ID
	}
	var variants []models.ProductVariant
	if err := c.db.WithContext(ctx).Where("product_id IN ?", ids).Order("name ASC").Find(&variants).Error; err != nil {
		return page, err
	}
	byProduct := make(map[uuid.UUID][]models.ProductVariant, len(ids))
	for _, v := range variants {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v)
	}
	for i := range page.Items {
		page.Items[i].Variants = byProduct[page.Items[i].ID]
	}
	return page, nil
}

func (c *Catalog) ListVariants(ctx context.Context, companyID, productID uuid.UUID, f Filter) (Page[models.ProductVariant], error) {
	f = f.Normalize()
	if _, err := c.GetProduct(ctx, companyID, productID); err != nil {
		return Page[models.ProductVariant]{}, err
	}
	q := c.db.WithContext(ctx).Model(&models.ProductVariant{}).Where("product_id = ?", productID)
	return paginate[models.ProductVariant](q, f, "name ASC", "name", "sku")
}

func (c *Catalog) ListStaff(ctx context.Context, companyID uuid.UUID, f Filter) (Page[models.Staff], error) {
	f = f.Normalize()
	return paginate[models.Staff](c.scoped(ctx, &models.Staff{}, companyID), f, c.order(), "name", "email")
}

// ListUsers lists the company's logins, optionally restricted to one role.
func (c *Catalog) ListUsers(ctx context.Context, companyID uuid.UUID, role string, f Filter) (Page[models.User], error) {
	f = f.Normalize()
	q := c.scoped(ctx, &models.User{}, companyID)
	if role != "" {
		q = q.Where("role = ?", role)
	}
	return paginate[models.User](q, f, "name ASC", "name", "email")
}

// ListCurrencies is not tenant scoped.
func (c *Catalog) ListCurrencies(ctx context.Context, f Filter) (Page[models.Currency], error) {
	f = f.Normalize()
	q := c.db.WithContext(ctx).Model(&models.Currency{})
	return paginate[models.Currency](q, f, "code ASC", "code", "name")
}

func first[T any](q *gorm.DB) (*T, error) {
	var v T
	if err := q.First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (c *Catalog) GetService(ctx context.Context, companyID, id uuid.UUID) (*models.Service, error) {
	return first[models.Service](c.scoped(ctx, &models.Service{}, companyID).Where("id = ?", id))
}

func (c *Catalog) GetProduct(ctx context.Context, companyID, id uuid.UUID) (*models.Product, error) {
	return first[models.Product](c.scoped(ctx, &models.Product{}, companyID).Preload("Variants").Where("id = ?", id))
}

// GetVariant loads a variant together with its company-owned product.
func (c *Catalog) GetVariant(ctx context.Context, companyID, id uuid.UUID) (*models.Product, *models.ProductVariant, error) {
	v, err := first[models.ProductVariant](c.db.WithContext(ctx).Where("id = ?", id))
	if err != nil {
		return nil, nil, err
	}
	p, err := c.GetProduct(ctx, companyID, v.ProductID)
	if err != nil {
		return nil, nil, err
	}
	return p, v, nil
}

func (c *Catalog) GetSpace(ctx context.Context, companyID, id uuid.UUID) (*models.Space, error) {
	return first[models.Space](c.scoped(ctx, &models.Space{}, companyID).Where("id = ?", id))
}

func (c *Catalog) GetStaff(ctx context.Context, companyID, id uuid.UUID) (*models.Staff, error) {
	return first[models.Staff](c.scoped(ctx, &models.Staff{}, companyID).Where("id = ?", id))
}

func (c *Catalog) GetUser(ctx context.Context, companyID, id uuid.UUID) (*models.User, error) {
	return first[models.User](c.scoped(ctx, &models.User{}, companyID).Where("id = ?", id))
}

// CompanyCurrency returns the currency configured for the company, or nil
// when none is set.
func (c *Catalog) CompanyCurrency(ctx context.Context, companyID uuid.UUID) (*models.Currency, error) {
	var company models.Company
	if err := c.db.WithContext(ctx).Preload("Currency").Where("id = ?", companyID).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return company.Currency, nil
}
