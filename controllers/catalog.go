package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"bookpos-backend/config"
	"bookpos-backend/models"
	"bookpos-backend/services/catalog"
	"bookpos-backend/utils"
)

// CatalogController serves the company's services, products, spaces, staff,
// users and the shared currency list.
type CatalogController struct {
	Catalog *catalog.Catalog
}

func NewCatalogController(cat *catalog.Catalog) *CatalogController {
	return &CatalogController{Catalog: cat}
}

func (cc *CatalogController) ListServices(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	page, err := cc.Catalog.ListServices(c.Request.Context(), companyID, f)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (cc *CatalogController) GetService(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "service")
	if !ok {
		return
	}
	svc, err := cc.Catalog.GetService(c.Request.Context(), companyID, id)
	if err != nil {
		respondLookup(c, err, "Service not found")
		return
	}
	c.JSON(http.StatusOK, svc)
}

type CreateServiceInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"min=0"`
	Duration    int     `json:"duration" binding:"required,min=1"` // minutes
	Category    string  `json:"category"`
	Priority    int     `json:"priority"`
}

func (cc *CatalogController) CreateService(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	in := catalog.ServiceInput{
		Name:        &input.Name,
		Description: &input.Description,
		Price:       &input.Price,
		Duration:    &input.Duration,
		Priority:    &input.Priority,
	}
	if input.Category != "" {
		in.Category = &input.Category
	}
	svc, err := cc.Catalog.CreateService(c.Request.Context(), companyID, in)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (cc *CatalogController) UpdateService(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "service")
	if !ok {
		return
	}
	var input catalog.ServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	svc, err := cc.Catalog.UpdateService(c.Request.Context(), companyID, id, input)
	if err != nil {
		respondLookup(c, err, "Service not found")
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (cc *CatalogController) DeleteService(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "service")
	if !ok {
		return
	}
	if err := cc.Catalog.DeleteService(c.Request.Context(), companyID, id); err != nil {
		respondLookup(c, err, "Service not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}

func (cc *CatalogController) ListProducts(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	page, err := cc.Catalog.ListProducts(c.Request.Context(), companyID, f)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (cc *CatalogController) GetProduct(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "product")
	if !ok {
		return
	}
	p, err := cc.Catalog.GetProduct(c.Request.Context(), companyID, id)
	if err != nil {
		respondLookup(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

type ProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	SKU         *string  `json:"sku"`
	BasePrice   *float64 `json:"basePrice" binding:"omitempty,min=0"`
	Unit        *string  `json:"unit"`
	IsActive    *bool    `json:"isActive"`
	Priority    *int     `json:"priority"`
}

func (in ProductInput) apply(p *models.Product) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.SKU != nil {
		p.SKU = *in.SKU
	}
	if in.BasePrice != nil {
		p.BasePrice = *in.BasePrice
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.Priority != nil {
		p.Priority = *in.Priority
	}
}

func (cc *CatalogController) CreateProduct(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Name == nil || *input.Name == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: name is required")
		return
	}

	product := models.Product{CompanyID: companyID, IsActive: true}
	input.apply(&product)
	if err := config.DB.Create(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (cc *CatalogController) UpdateProduct(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "product")
	if !ok {
		return
	}
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var product models.Product
	if err := config.DB.Where("company_id = ? AND id = ?", companyID, id).First(&product).Error; err != nil {
		respondLookup(c, err, "Product not found")
		return
	}
	input.apply(&product)
	if err := config.DB.Save(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (cc *CatalogController) DeleteProduct(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "product")
	if !ok {
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("company_id = ? AND id = ?", companyID, id).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error
	})
	if err != nil {
		respondLookup(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (cc *CatalogController) ListVariants(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	productID, ok := paramID(c, "id", "product")
	if !ok {
		return
	}
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	page, err := cc.Catalog.ListVariants(c.Request.Context(), companyID, productID, f)
	if err != nil {
		respondLookup(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, page)
}

type VariantInput struct {
	Name       *string                `json:"name"`
	SKU        *string                `json:"sku"`
	Price      *float64               `json:"price" binding:"omitempty,min=0"`
	Stock      *int                   `json:"stock"`
	IsActive   *bool                  `json:"isActive"`
	Attributes map[string]interface{} `json:"attributes"`
}

func (in VariantInput) apply(v *models.ProductVariant) {
	if in.Name != nil {
		v.Name = *in.Name
	}
	if in.SKU != nil {
		v.SKU = *in.SKU
	}
	if in.Price != nil {
		v.Price = *in.Price
	}
	if in.Stock != nil {
		v.Stock = *in.Stock
	}
	if in.IsActive != nil {
		v.IsActive = *in.IsActive
	}
	if in.Attributes != nil {
		v.Attributes = datatypes.JSONMap(in.Attributes)
	}
}

func (cc *CatalogController) CreateVariant(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	productID, ok := paramID(c, "id", "product")
	if !ok {
		return
	}
	var input VariantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if _, err := cc.Catalog.GetProduct(c.Request.Context(), companyID, productID); err != nil {
		respondLookup(c, err, "Product not found")
		return
	}

	variant := models.ProductVariant{ProductID: productID, IsActive: true}
	input.apply(&variant)
	if err := config.DB.Create(&variant).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create variant")
		return
	}
	c.JSON(http.StatusCreated, variant)
}

func (cc *CatalogController) UpdateVariant(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "variantId", "variant")
	if !ok {
		return
	}
	var input VariantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	_, variant, err := cc.Catalog.GetVariant(c.Request.Context(), companyID, id)
	if err != nil {
		respondLookup(c, err, "Variant not found")
		return
	}
	input.apply(variant)
	if err := config.DB.Save(variant).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update variant")
		return
	}
	c.JSON(http.StatusOK, variant)
}

func (cc *CatalogController) DeleteVariant(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "variantId", "variant")
	if !ok {
		return
	}
	_, variant, err := cc.Catalog.GetVariant(c.Request.Context(), companyID, id)
	if err != nil {
		respondLookup(c, err, "Variant not found")
		return
	}
	if err := config.DB.Delete(variant).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete variant")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Variant deleted successfully"})
}

func (cc *CatalogController) ListSpaces(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	page, err := cc.Catalog.ListSpaces(c.Request.Context(), companyID, f)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve spaces")
		return
	}
	c.JSON(http.StatusOK, page)
}

type SpaceInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Capacity    *int    `json:"capacity" binding:"omitempty,min=1"`
	IsActive    *bool   `json:"isActive"`
	Priority    *int    `json:"priority"`
}

func (in SpaceInput) apply(s *models.Space) {
	if in.Name != nil {
		s.Name = *in.Name
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.Capacity != nil {
		s.Capacity = *in.Capacity
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	if in.Priority != nil {
		s.Priority = *in.Priority
	}
}

func (cc *CatalogController) CreateSpace(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	var input SpaceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Name == nil || *input.Name == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: name is required")
		return
	}

	space := models.Space{CompanyID: companyID, Capacity: 1, IsActive: true}
	input.apply(&space)
	if err := config.DB.Create(&space).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create space")
		return
	}
	cc.invalidate(c, companyID)
	c.JSON(http.StatusCreated, space)
}

func (cc *CatalogController) UpdateSpace(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "space")
	if !ok {
		return
	}
	var input SpaceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	space, err := cc.Catalog.GetSpace(c.Request.Context(), companyID, id)
	if err != nil {
		respondLookup(c, err, "Space not found")
		return
	}
	input.apply(space)
	if err := config.DB.Save(space).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update space")
		return
	}
	cc.invalidate(c, companyID)
	c.JSON(http.StatusOK, space)
}

func (cc *CatalogController) DeleteSpace(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "space")
	if !ok {
		return
	}
	res := config.DB.Where("company_id = ? AND id = ?", companyID, id).Delete(&models.Space{})
	if res.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete space")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Space not found")
		return
	}
	cc.invalidate(c, companyID)
	c.JSON(http.StatusOK, gin.H{"message": "Space deleted successfully"})
}

func (cc *CatalogController) ListStaff(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	page, err := cc.Catalog.ListStaff(c.Request.Context(), companyID, f)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve staff")
		return
	}
	c.JSON(http.StatusOK, page)
}

type StaffInput struct {
	Name     *string    `json:"name"`
	Title    *string    `json:"title"`
	Email    *string    `json:"email" binding:"omitempty,email"`
	Phone    *string    `json:"phone"`
	UserID   *uuid.UUID `json:"userId"`
	IsActive *bool      `json:"isActive"`
	Priority *int       `json:"priority"`
}

func (in StaffInput) apply(s *models.Staff) {
	if in.Name != nil {
		s.Name = *in.Name
	}
	if in.Title != nil {
		s.Title = *in.Title
	}
	if in.Email != nil {
		s.Email = *in.Email
	}
	if in.Phone != nil {
		s.Phone = utils.NormalizePhone(*in.Phone)
	}
	if in.UserID != nil {
		s.UserID = in.UserID
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	if in.Priority != nil {
		s.Priority = *in.Priority
	}
}

func (cc *CatalogController) CreateStaff(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	var input StaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Name == nil || *input.Name == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: name is required")
		return
	}
	if input.UserID != nil {
		if _, err := cc.Catalog.GetUser(c.Request.Context(), companyID, *input.UserID); err != nil {
			respondLookup(c, err, "User not found")
			return
		}
	}

	staff := models.Staff{CompanyID: companyID, IsActive: true}
	input.apply(&staff)
	if err := config.DB.Create(&staff).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create staff member")
		return
	}
	c.JSON(http.StatusCreated, staff)
}

func (cc *CatalogController) UpdateStaff(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "staff")
	if !ok {
		return
	}
	var input StaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	staff, err := cc.Catalog.GetStaff(c.Request.Context(), companyID, id)
	if err != nil {
		respondLookup(c, err, "Staff member not found")
		return
	}
	input.apply(staff)
	if err := config.DB.Save(staff).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update staff member")
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (cc *CatalogController) DeleteStaff(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "staff")
	if !ok {
		return
	}
	res := config.DB.Where("company_id = ? AND id = ?", companyID, id).Delete(&models.Staff{})
	if res.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete staff member")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Staff member not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff member deleted successfully"})
}

// ListUsers accepts ?role=client|staff|company_owner.
func (cc *CatalogController) ListUsers(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	role := c.Query("role")
	switch role {
	case "", models.RoleClient, models.RoleStaff, models.RoleCompanyOwner:
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid role")
		return
	}
	page, err := cc.Catalog.ListUsers(c.Request.Context(), companyID, role, f)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}
	c.JSON(http.StatusOK, page)
}

type CreateUserInput struct {
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=staff client"`
}

// CreateUser adds a staff or client login to the caller's company.
func (cc *CatalogController) CreateUser(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	var existing models.User
	err := config.DB.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	user := models.User{
		Email:     input.Email,
		Phone:     utils.NormalizePhone(input.Phone),
		Name:      input.Name,
		Password:  input.Password,
		Role:      input.Role,
		CompanyID: companyID,
		IsActive:  true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, userSummary(user))
}

func (cc *CatalogController) ListCurrencies(c *gin.Context) {
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	page, err := cc.Catalog.ListCurrencies(c.Request.Context(), f)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve currencies")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (cc *CatalogController) GetCurrency(c *gin.Context) {
	id, ok := paramID(c, "id", "currency")
	if !ok {
		return
	}
	var cur models.Currency
	if err := config.DB.First(&cur, "id = ?", id).Error; err != nil {
		respondLookup(c, err, "Currency not found")
		return
	}
	c.JSON(http.StatusOK, cur)
}

func (cc *CatalogController) invalidate(c *gin.Context, companyID uuid.UUID) {
	if err := cc.Catalog.Invalidate(c.Request.Context(), companyID); err != nil {
		config.GetLogger().Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
