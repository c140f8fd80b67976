package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookpos-backend/config"
	"bookpos-backend/models"
	"bookpos-backend/services/billing"
	"bookpos-backend/services/catalog"
	"bookpos-backend/utils"
)

type SaleController struct {
	Catalog *catalog.Catalog
}

func NewSaleController(cat *catalog.Catalog) *SaleController {
	return &SaleController{Catalog: cat}
}

type SaleItemUpdate struct {
	ID              uuid.UUID `json:"id" binding:"required"`
	Quantity        *float64  `json:"quantity" binding:"omitempty,min=0"`
	DiscountPercent *float64  `json:"discountPercent" binding:"omitempty,min=0,max=100"`
}

type UpdateSaleInput struct {
	Items         []SaleItemUpdate `json:"items" binding:"dive"`
	RemoveItemIDs []uuid.UUID      `json:"removeItemIds"`
	Notes         *string          `json:"notes"`
	PaymentStatus *string          `json:"paymentStatus" binding:"omitempty,oneof=Pending Paid Partial"`
	PaymentMethod *string          `json:"paymentMethod"`
}

type saleView struct {
	models.Sale
	Formatted gin.H `json:"formatted"`
}

func newSaleView(s models.Sale, cur *models.Currency) saleView {
	return saleView{Sale: s, Formatted: gin.H{
		"subtotal":       cur.FormatAmount(s.Subtotal),
		"discountAmount": cur.FormatAmount(s.DiscountAmount),
		"total":          cur.FormatAmount(s.Total),
	}}
}

// ListSales accepts ?from=, ?to= (YYYY-MM-DD), ?paymentStatus=, ?limit= and ?offset=.
func (sc *SaleController) ListSales(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}

	q := config.DB.Model(&models.Sale{}).Where("company_id = ?", companyID)
	if from := c.Query("from"); from != "" {
		t, err := utils.ParseLocalDate(from, time.Local)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from date")
			return
		}
		q = q.Where("sale_date >= ?", t)
	}
	if to := c.Query("to"); to != "" {
		t, err := utils.ParseLocalDate(to, time.Local)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid to date")
			return
		}
		q = q.Where("sale_date < ?", t.AddDate(0, 0, 1))
	}
	if ps := c.Query("paymentStatus"); ps != "" {
		q = q.Where("payment_status = ?", ps)
	}
	q = q.Session(&gorm.Session{})

	limit, offset := pageParams(c)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve sales")
		return
	}
	sales := make([]models.Sale, 0)
	if err := q.Preload("Items").Order("sale_date DESC").Limit(limit).Offset(offset).Find(&sales).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve sales")
		return
	}

	cur := displayCurrency(c, sc.Catalog, companyID)
	items := make([]saleView, 0, len(sales))
	for _, s := range sales {
		items = append(items, newSaleView(s, cur))
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"pagination": catalog.Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: int64(offset+len(sales)) < total,
		},
	})
}

func (sc *SaleController) find(c *gin.Context, companyID uuid.UUID) (*models.Sale, bool) {
	id, ok := paramID(c, "id", "sale")
	if !ok {
		return nil, false
	}
	var sale models.Sale
	err := config.DB.Preload("Items").Where("company_id = ? AND id = ?", companyID, id).First(&sale).Error
	if err != nil {
		respondLookup(c, err, "Sale not found")
		return nil, false
	}
	return &sale, true
}

func (sc *SaleController) GetSale(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	sale, ok := sc.find(c, companyID)
	if !ok {
		return
	}
	cur := displayCurrency(c, sc.Catalog, companyID)
	c.JSON(http.StatusOK, newSaleView(*sale, cur))
}

// UpdateSale edits lines of a stored sale and recomputes its totals.
func (sc *SaleController) UpdateSale(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	var input UpdateSaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	sale, ok := sc.find(c, companyID)
	if !ok {
		return
	}

	bill := billing.SaleBill(*sale)
	for _, id := range input.RemoveItemIDs {
		if err := bill.Remove(id.String()); err != nil {
			utils.RespondWithError(c, http.StatusNotFound, "Sale item not found")
			return
		}
	}
	for _, u := range input.Items {
		if u.Quantity != nil {
			if err := bill.SetQuantity(u.ID.String(), *u.Quantity); err != nil {
				utils.RespondWithError(c, http.StatusNotFound, "Sale item not found")
				return
			}
		}
		if u.DiscountPercent != nil {
			if err := bill.SetDiscount(u.ID.String(), *u.DiscountPercent); err != nil {
				utils.RespondWithError(c, http.StatusNotFound, "Sale item not found")
				return
			}
		}
	}
	if len(bill.Items) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "A sale needs at least one item")
		return
	}

	billing.ApplyBill(sale, bill.Items)
	if input.Notes != nil {
		sale.Notes = *input.Notes
	}
	if input.PaymentStatus != nil {
		sale.PaymentStatus = *input.PaymentStatus
	}
	if input.PaymentMethod != nil {
		sale.PaymentMethod = *input.PaymentMethod
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&sale.Items).Error; err != nil {
			return err
		}
		return tx.Omit("Items").Save(sale).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update sale")
		return
	}

	cur := displayCurrency(c, sc.Catalog, companyID)
	c.JSON(http.StatusOK, newSaleView(*sale, cur))
}

func (sc *SaleController) DeleteSale(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	sale, ok := sc.find(c, companyID)
	if !ok {
		return
	}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(sale).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete sale")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sale deleted successfully"})
}
