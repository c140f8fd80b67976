package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bookpos-backend/config"
	"bookpos-backend/models"
	"bookpos-backend/utils"
)

type RegisterInput struct {
	Email          string       `json:"email" binding:"required,email"`
	Phone          string       `json:"phone" binding:"required"`
	Name           string       `json:"name" binding:"required"`
	Password       string       `json:"password" binding:"required,min=8"`
	CompanyName    string       `json:"companyName" binding:"required"`
	CompanyAddress string       `json:"companyAddress"`
	CurrencyCode   string       `json:"currencyCode"`
	WorkingHours   models.JSONB `json:"workingHours"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // email or phone
	Password   string `json:"password" binding:"required"`
}

const defaultReminderMessage = "Hi [ClientName], this is a reminder of your [ServiceName] appointment tomorrow at [Time]. See you soon!"

// Register creates a company together with its owner account.
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}
	input.Phone = utils.NormalizePhone(input.Phone)

	var existing models.User
	err := config.DB.Where("email = ? OR phone = ?", input.Email, input.Phone).First(&existing).Error
	if err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email or phone already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	company := models.Company{
		Name:         input.CompanyName,
		Address:      input.CompanyAddress,
		Phone:        input.Phone,
		WorkingHours: input.WorkingHours,
		IsActive:     true,
	}
	if company.WorkingHours == nil {
		company.WorkingHours = models.DefaultWorkingHours()
	}
	if input.CurrencyCode != "" {
		var cur models.Currency
		if err := config.DB.Where("code = ?", strings.ToUpper(input.CurrencyCode)).First(&cur).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown currency code")
			return
		}
		company.CurrencyID = &cur.ID
	}

	owner := models.User{
		Email:    input.Email,
		Phone:    input.Phone,
		Name:     input.Name,
		Password: input.Password, // hashed in BeforeCreate
		Role:     models.RoleCompanyOwner,
		IsActive: true,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&company).Error; err != nil {
			return err
		}
		owner.CompanyID = company.ID
		if err := tx.Create(&owner).Error; err != nil {
			return err
		}
		return tx.Create(&models.ReminderTemplate{
			CompanyID: company.ID,
			Type:      models.ReminderAppointment,
			Message:   defaultReminderMessage,
			IsActive:  true,
		}).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to register company")
		return
	}

	token, ok := issueToken(c, owner)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user":    userSummary(owner),
		"company": company,
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	identifier := strings.TrimSpace(input.Identifier)

	var user models.User
	if err := config.DB.Where("email = ? OR phone = ?", identifier, identifier).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if !user.IsActive || !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, ok := issueToken(c, user)
	if !ok {
		return
	}

	now := time.Now()
	config.DB.Model(&user).Update("last_login", &now)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userSummary(user),
	})
}

func Me(c *gin.Context) {
	userID, ok := utils.UserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}
	var company models.Company
	if err := config.DB.Preload("Currency").First(&company, "id = ?", user.CompanyID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Company not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    userSummary(user),
		"company": company,
	})
}

func issueToken(c *gin.Context, user models.User) (string, bool) {
	token, err := utils.GenerateToken(user.ID.String(), user.CompanyID.String(), user.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return "", false
	}

	expiryHours := config.AppConfig.JWTExpiryHours
	if expiryHours <= 0 {
		expiryHours = 24
	}
	c.SetCookie("token", token, expiryHours*3600, "/", "", config.IsProduction(), true)
	return token, true
}

func userSummary(u models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"email":     u.Email,
		"phone":     u.Phone,
		"name":      u.Name,
		"role":      u.Role,
		"companyId": u.CompanyID,
	}
}
