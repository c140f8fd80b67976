package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookpos-backend/config"
	"bookpos-backend/models"
	"bookpos-backend/services/reminder"
	"bookpos-backend/utils"
)

type CreateReminderTemplateInput struct {
	Type    string `json:"type" binding:"required,oneof=appointment"`
	Message string `json:"message" binding:"required"`
}

type UpdateReminderTemplateInput struct {
	Message  *string `json:"message"`
	IsActive *bool   `json:"isActive"`
}

// ReminderController manages the company's reminder texts and can trigger a run.
type ReminderController struct {
	Reminders *reminder.Service
	Now       func() time.Time
}

func NewReminderController(svc *reminder.Service) *ReminderController {
	return &ReminderController{Reminders: svc, Now: time.Now}
}

func (rc *ReminderController) CreateReminderTemplate(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}

	var input CreateReminderTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// One template per type.
	var existing models.ReminderTemplate
	if err := config.DB.Where("company_id = ? AND type = ?", companyID, input.Type).
		First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Template for this type already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	template := models.ReminderTemplate{
		CompanyID: companyID,
		Type:      input.Type,
		Message:   input.Message,
		IsActive:  true,
	}
	if err := config.DB.Create(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create template")
		return
	}

	c.JSON(http.StatusCreated, template)
}

func (rc *ReminderController) GetReminderTemplates(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}

	templates := make([]models.ReminderTemplate, 0)
	if err := config.DB.Where("company_id = ?", companyID).Order("type ASC").Find(&templates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve templates")
		return
	}

	c.JSON(http.StatusOK, templates)
}

func (rc *ReminderController) findTemplate(c *gin.Context, companyID uuid.UUID) (*models.ReminderTemplate, bool) {
	id, ok := paramID(c, "id", "template")
	if !ok {
		return nil, false
	}
	var template models.ReminderTemplate
	if err := config.DB.Where("company_id = ? AND id = ?", companyID, id).First(&template).Error; err != nil {
		respondLookup(c, err, "Template not found")
		return nil, false
	}
	return &template, true
}

func (rc *ReminderController) GetReminderTemplate(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	template, ok := rc.findTemplate(c, companyID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, template)
}

func (rc *ReminderController) UpdateReminderTemplate(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}

	var input UpdateReminderTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	template, ok := rc.findTemplate(c, companyID)
	if !ok {
		return
	}
	if input.Message != nil {
		template.Message = *input.Message
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := config.DB.Save(template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update template")
		return
	}

	c.JSON(http.StatusOK, template)
}

func (rc *ReminderController) DeleteReminderTemplate(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "template")
	if !ok {
		return
	}

	result := config.DB.Where("company_id = ? AND id = ?", companyID, id).
		Delete(&models.ReminderTemplate{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete template")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// GetReminderLogs lists sent and failed reminders, newest first. ?status= filters.
func (rc *ReminderController) GetReminderLogs(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}

	q := config.DB.Where("company_id = ?", companyID)
	if s := c.Query("status"); s != "" {
		q = q.Where("status = ?", s)
	}
	limit, offset := pageParams(c)
	logs := make([]models.ReminderLog, 0)
	if err := q.Order("sent_at DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reminder logs")
		return
	}
	c.JSON(http.StatusOK, logs)
}

// SendReminders runs the reminder pass for the caller's company now instead
// of waiting for the scheduler. ?date= defaults to tomorrow.
func (rc *ReminderController) SendReminders(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	if rc.Reminders == nil {
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Reminders are not configured")
		return
	}

	date := c.Query("date")
	if date == "" {
		date = utils.FormatLocalDate(rc.Now().AddDate(0, 0, 1))
	} else if _, err := utils.ParseLocalDate(date, time.Local); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	sent, err := rc.Reminders.ProcessCompany(c.Request.Context(), companyID, date)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to send reminders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "sent": sent})
}
