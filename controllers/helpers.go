package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookpos-backend/config"
	"bookpos-backend/models"
	"bookpos-backend/services/catalog"
	"bookpos-backend/utils"
)

// tenant reads the caller's company or answers 401.
func tenant(c *gin.Context) (uuid.UUID, bool) {
	companyID, ok := utils.CompanyID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Company ID not found in context")
	}
	return companyID, ok
}

// paramID parses the named path parameter or answers 400.
func paramID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+label+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, catalog.ErrNotFound)
}

// respondLookup maps a lookup failure to 404 or 500.
func respondLookup(c *gin.Context, err error, notFound string) {
	if isNotFound(err) {
		utils.RespondWithError(c, http.StatusNotFound, notFound)
		return
	}
	utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
}

func bindFilter(c *gin.Context) (catalog.Filter, bool) {
	var f catalog.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return f, false
	}
	return f.Normalize(), true
}

// displayCurrency loads the company's currency for formatting. A failed
// lookup is logged and yields nil, which formats with the default symbol.
func displayCurrency(c *gin.Context, cat *catalog.Catalog, companyID uuid.UUID) *models.Currency {
	cur, err := cat.CompanyCurrency(c.Request.Context(), companyID)
	if err != nil {
		config.GetLogger().Warn("company currency lookup failed",
			zap.String("company_id", companyID.String()), zap.Error(err))
	}
	return cur
}
