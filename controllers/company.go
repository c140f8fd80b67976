package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookpos-backend/config"
	"bookpos-backend/models"
	"bookpos-backend/services/catalog"
	"bookpos-backend/utils"
)

type UpdateCompanyInput struct {
	Name         *string       `json:"name" binding:"omitempty,min=1"`
	Address      *string       `json:"address"`
	Phone        *string       `json:"phone"`
	CurrencyID   *uuid.UUID    `json:"currencyId"`
	WorkingHours *models.JSONB `json:"workingHours"`
}

// CompanyController edits the caller's own company. Currency changes drop
// the catalog cache since cached pages carry display prices.
type CompanyController struct {
	Catalog *catalog.Catalog
}

func NewCompanyController(cat *catalog.Catalog) *CompanyController {
	return &CompanyController{Catalog: cat}
}

func (cc *CompanyController) load(c *gin.Context) (*models.Company, bool) {
	companyID, ok := tenant(c)
	if !ok {
		return nil, false
	}
	var company models.Company
	if err := config.DB.Preload("Currency").Where("id = ?", companyID).First(&company).Error; err != nil {
		respondLookup(c, err, "Company not found")
		return nil, false
	}
	return &company, true
}

func (cc *CompanyController) GetCompany(c *gin.Context) {
	company, ok := cc.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, company)
}

func (cc *CompanyController) UpdateCompany(c *gin.Context) {
	var input UpdateCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	company, ok := cc.load(c)
	if !ok {
		return
	}

	if input.Name != nil {
		company.Name = *input.Name
	}
	if input.Address != nil {
		company.Address = *input.Address
	}
	if input.Phone != nil {
		phone := utils.NormalizePhone(*input.Phone)
		if phone != "" && !utils.ValidatePhone(phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
			return
		}
		company.Phone = phone
	}
	if input.WorkingHours != nil {
		company.WorkingHours = *input.WorkingHours
	}
	if input.CurrencyID != nil {
		var cur models.Currency
		if err := config.DB.Where("id = ? AND is_active = ?", *input.CurrencyID, true).First(&cur).Error; err != nil {
			respondLookup(c, err, "Currency not found")
			return
		}
		company.CurrencyID = &cur.ID
		company.Currency = &cur
	}

	if err := config.DB.Omit("Currency").Save(company).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update company")
		return
	}
	if input.CurrencyID != nil {
		_ = cc.Catalog.Invalidate(c.Request.Context(), company.ID)
	}

	c.JSON(http.StatusOK, company)
}
