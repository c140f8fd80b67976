package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
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

type AppointmentController struct {
	Catalog *catalog.Catalog
	Now     func() time.Time
}

func NewAppointmentController(cat *catalog.Catalog) *AppointmentController {
	return &AppointmentController{Catalog: cat, Now: time.Now}
}

type UpdateAppointmentStatusInput struct {
	Status  string     `json:"status" binding:"required,oneof=Pending Confirmed completed no_show cancelled partially_completed"`
	StaffID *uuid.UUID `json:"staffId"`
}

type BillingItemInput struct {
	Kind            string     `json:"kind" binding:"required,oneof=product service"`
	ServiceID       *uuid.UUID `json:"serviceId"`
	ProductID       *uuid.UUID `json:"productId"`
	VariantID       *uuid.UUID `json:"variantId"`
	Quantity        *float64   `json:"quantity" binding:"omitempty,min=0"`
	DiscountPercent float64    `json:"discountPercent" binding:"min=0,max=100"`
}

// CompleteAppointmentInput closes an appointment. Items, when present, is the
// whole bill; without it the bill is the appointment's own service.
type CompleteAppointmentInput struct {
	Status        string             `json:"status" binding:"required"`
	Notes         *string            `json:"notes"`
	Items         []BillingItemInput `json:"items" binding:"dive"`
	PaymentMethod string             `json:"paymentMethod"`
	PaymentStatus string             `json:"paymentStatus" binding:"omitempty,oneof=Pending Paid Partial"`
}

// variantChoiceError reports a product that needs an explicit variant.
type variantChoiceError struct {
	product models.Product
	choices []models.ProductVariant
}

func (e *variantChoiceError) Error() string {
	return "select a variant for " + e.product.Name
}

// ListAppointments accepts ?date=, ?from=, ?to=, ?status=, ?limit= and ?offset=.
// Clients only see their own appointments.
func (ac *AppointmentController) ListAppointments(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}

	q := config.DB.Model(&models.Appointment{}).Where("company_id = ?", companyID)
	if utils.Role(c) == models.RoleClient {
		userID, _ := utils.UserID(c)
		q = q.Where("client_id = ?", userID)
	}
	if d := c.Query("date"); d != "" {
		q = q.Where("date = ?", d)
	}
	if from := c.Query("from"); from != "" {
		q = q.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		q = q.Where("date <= ?", to)
	}
	if s := c.Query("status"); s != "" {
		q = q.Where("status = ?", s)
	}
	q = q.Session(&gorm.Session{})

	limit, offset := pageParams(c)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}
	appts := make([]models.Appointment, 0)
	if err := q.Preload("Client").Preload("Service").Preload("Staff").Preload("Space").
		Order("date ASC, time ASC").Limit(limit).Offset(offset).
		Find(&appts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": appts,
		"pagination": catalog.Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: int64(offset+len(appts)) < total,
		},
	})
}

func pageParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	f := catalog.Filter{Limit: limit, Offset: offset}.Normalize()
	return f.Limit, f.Offset
}

func (ac *AppointmentController) find(c *gin.Context, companyID uuid.UUID) (*models.Appointment, bool) {
	id, ok := paramID(c, "id", "appointment")
	if !ok {
		return nil, false
	}
	q := config.DB.Preload("Client").Preload("Service").Preload("Staff").Preload("Space").
		Where("company_id = ? AND id = ?", companyID, id)
	if utils.Role(c) == models.RoleClient {
		userID, _ := utils.UserID(c)
		q = q.Where("client_id = ?", userID)
	}
	var appt models.Appointment
	if err := q.First(&appt).Error; err != nil {
		respondLookup(c, err, "Appointment not found")
		return nil, false
	}
	return &appt, true
}

func (ac *AppointmentController) GetAppointment(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	appt, ok := ac.find(c, companyID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, appt)
}

// UpdateAppointmentStatus also lets the owner settle a preferred-staff
// shortlist by assigning staffId.
func (ac *AppointmentController) UpdateAppointmentStatus(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	var input UpdateAppointmentStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	appt, ok := ac.find(c, companyID)
	if !ok {
		return
	}

	updates := map[string]interface{}{"status": input.Status}
	if input.StaffID != nil {
		staff, err := ac.Catalog.GetStaff(c.Request.Context(), companyID, *input.StaffID)
		if err != nil {
			respondLookup(c, err, "Staff member not found")
			return
		}
		updates["staff_id"] = staff.ID
		updates["preferred_staff_ids"] = nil
	}
	if err := config.DB.Model(appt).Updates(updates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment")
		return
	}

	appt, ok = ac.find(c, companyID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, appt)
}

// GetBilling returns the starting bill for closing the appointment.
func (ac *AppointmentController) GetBilling(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	appt, ok := ac.find(c, companyID)
	if !ok {
		return
	}
	svc, err := ac.Catalog.GetService(c.Request.Context(), companyID, appt.ServiceID)
	if err != nil {
		respondLookup(c, err, "Service not found")
		return
	}
	comp := billing.NewCompletion(*appt, *svc)
	cur := displayCurrency(c, ac.Catalog, companyID)
	c.JSON(http.StatusOK, gin.H{
		"completion": comp.Payload(),
		"totals":     comp.Totals(),
		"formatted":  formatTotals(cur, comp.Totals()),
	})
}

func (ac *AppointmentController) CompleteAppointment(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	userID, _ := utils.UserID(c)

	var input CompleteAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	appt, ok := ac.find(c, companyID)
	if !ok {
		return
	}

	exists, err := saleExists(config.DB, appt.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		utils.RespondWithError(c, http.StatusConflict, "Appointment already has a sale")
		return
	}

	comp, err := ac.buildCompletion(c.Request.Context(), companyID, *appt, input)
	if err != nil {
		var choice *variantChoiceError
		switch {
		case errors.As(err, &choice):
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
				"error":     err.Error(),
				"productId": choice.product.ID,
				"choices":   choice.choices,
			})
		case isNotFound(err):
			utils.RespondWithError(c, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	now := ac.Now()
	var sale *models.Sale
	if comp.Status == models.AppointmentCompleted || comp.Status == models.AppointmentPartiallyCompleted {
		if len(comp.Items) > 0 {
			s := comp.Sale(&userID, now)
			s.PaymentMethod = input.PaymentMethod
			if input.PaymentStatus != "" {
				s.PaymentStatus = input.PaymentStatus
			}
			sale = &s
		}
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		// a concurrent completion may have committed since the check above
		exists, err := saleExists(tx, appt.ID)
		if err != nil {
			return err
		}
		if exists {
			return errSaleExists
		}
		updates := map[string]interface{}{"status": comp.Status, "notes": comp.Notes}
		if sale != nil {
			updates["payment_status"] = sale.PaymentStatus
		}
		if err := tx.Model(&models.Appointment{}).Where("id = ?", appt.ID).Updates(updates).Error; err != nil {
			return err
		}
		if sale == nil {
			return nil
		}
		return tx.Create(sale).Error
	})
	if errors.Is(err, errSaleExists) || errors.Is(err, gorm.ErrDuplicatedKey) {
		utils.RespondWithError(c, http.StatusConflict, "Appointment already has a sale")
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to complete appointment")
		return
	}

	appt.Status = comp.Status
	appt.Notes = comp.Notes
	if sale != nil {
		appt.PaymentStatus = sale.PaymentStatus
	}
	cur := displayCurrency(c, ac.Catalog, companyID)
	c.JSON(http.StatusOK, gin.H{
		"appointment": appt,
		"completion":  comp.Payload(),
		"sale":        sale,
		"formatted":   formatTotals(cur, comp.Totals()),
	})
}

func (ac *AppointmentController) buildCompletion(ctx context.Context, companyID uuid.UUID, appt models.Appointment, input CompleteAppointmentInput) (*billing.Completion, error) {
	svc, err := ac.Catalog.GetService(ctx, companyID, appt.ServiceID)
	if err != nil {
		return nil, err
	}
	comp := billing.NewCompletion(appt, *svc)
	if err := comp.SetStatus(input.Status); err != nil {
		return nil, err
	}
	if input.Notes != nil {
		comp.SetNotes(*input.Notes)
	}
	if len(input.Items) == 0 {
		return comp, nil
	}

	base := comp.Items[0]
	comp.Items = nil
	baseUsed := false
	for _, in := range input.Items {
		var item billing.Item
		switch in.Kind {
		case string(billing.KindService):
			if in.ServiceID == nil {
				return nil, errors.New("serviceId is required for service items")
			}
			if *in.ServiceID == appt.ServiceID && !baseUsed {
				item = comp.Add(base)
				baseUsed = true
				break
			}
			s, err := ac.Catalog.GetService(ctx, companyID, *in.ServiceID)
			if err != nil {
				return nil, err
			}
			item = comp.AddService(*s)
		case string(billing.KindProduct):
			item, err = ac.addProduct(ctx, companyID, comp, in)
			if err != nil {
				return nil, err
			}
		}

		if in.Quantity != nil {
			if err := comp.SetQuantity(item.ID, *in.Quantity); err != nil {
				return nil, err
			}
		}
		if err := comp.SetDiscount(item.ID, in.DiscountPercent); err != nil {
			return nil, err
		}
	}
	return comp, nil
}

func (ac *AppointmentController) addProduct(ctx context.Context, companyID uuid.UUID, comp *billing.Completion, in BillingItemInput) (billing.Item, error) {
	if in.VariantID != nil {
		p, v, err := ac.Catalog.GetVariant(ctx, companyID, *in.VariantID)
		if err != nil {
			return billing.Item{}, err
		}
		if in.ProductID != nil && *in.ProductID != p.ID {
			return billing.Item{}, billing.ErrVariantMissing
		}
		return comp.AddVariant(*p, *v)
	}
	if in.ProductID == nil {
		return billing.Item{}, errors.New("productId is required for product items")
	}
	p, err := ac.Catalog.GetProduct(ctx, companyID, *in.ProductID)
	if err != nil {
		return billing.Item{}, err
	}
	sel, err := comp.AddProduct(*p, p.Variants)
	if err != nil {
		return billing.Item{}, err
	}
	if sel.NeedsChoice() {
		return billing.Item{}, &variantChoiceError{product: *p, choices: sel.Choices}
	}
	return *sel.Item, nil
}

var errSaleExists = errors.New("appointment already has a sale")

func saleExists(db *gorm.DB, appointmentID uuid.UUID) (bool, error) {
	var n int64
	err := db.Model(&models.Sale{}).Where("appointment_id = ?", appointmentID).Count(&n).Error
	return n > 0, err
}

func formatTotals(cur *models.Currency, t billing.Totals) gin.H {
	return gin.H{
		"subtotal":       cur.FormatAmount(t.Subtotal),
		"discountAmount": cur.FormatAmount(t.DiscountAmount),
		"finalTotal":     cur.FormatAmount(t.FinalTotal),
	}
}
