package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookpos-backend/config"
	"bookpos-backend/models"
	"bookpos-backend/utils"
)

type UpcomingAppointment struct {
	ID      uuid.UUID `json:"id"`
	Client  string    `json:"client"`
	Service string    `json:"service"`
	Date    string    `json:"date"`
	Time    string    `json:"time"`
	When    string    `json:"when"` // e.g. "Today", "Tomorrow", "3 days"
	Status  string    `json:"status"`
}

type RecentSale struct {
	ID         uuid.UUID `json:"id"`
	SaleNumber string    `json:"saleNumber"`
	Client     string    `json:"client"`
	Total      string    `json:"total"`
	SoldOn     string    `json:"soldOn"` // e.g. "Today", "Yesterday"
}

// DashboardController serves the owner's landing page figures.
type DashboardController struct {
	Now func() time.Time
}

func NewDashboardController() *DashboardController {
	return &DashboardController{Now: time.Now}
}

func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}

	now := dc.Now()
	today := utils.FormatLocalDate(now)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var todayAppointments, pendingAppointments, totalClients, monthlySales int64
	config.DB.Model(&models.Appointment{}).
		Where("company_id = ? AND date = ?", companyID, today).
		Count(&todayAppointments)
	config.DB.Model(&models.Appointment{}).
		Where("company_id = ? AND status = ? AND date >= ?", companyID, models.AppointmentPending, today).
		Count(&pendingAppointments)
	config.DB.Model(&models.User{}).
		Where("company_id = ? AND role = ?", companyID, models.RoleClient).
		Count(&totalClients)

	var monthlyRevenue float64
	config.DB.Model(&models.Sale{}).
		Where("company_id = ? AND sale_date >= ?", companyID, firstOfMonth).
		Count(&monthlySales)
	config.DB.Model(&models.Sale{}).
		Where("company_id = ? AND sale_date >= ?", companyID, firstOfMonth).
		Select("COALESCE(SUM(total), 0)").Scan(&monthlyRevenue)

	cur := companyCurrency(companyID)

	// Next appointments over the coming week.
	var appts []models.Appointment
	config.DB.Preload("Client").Preload("Service").
		Where("company_id = ? AND date >= ? AND date <= ? AND status IN ?", companyID,
			today, utils.FormatLocalDate(now.AddDate(0, 0, 6)),
			[]string{models.AppointmentPending, models.AppointmentConfirmed}).
		Order("date ASC, time ASC").Limit(7).
		Find(&appts)

	upcoming := make([]UpcomingAppointment, 0, len(appts))
	for _, a := range appts {
		u := UpcomingAppointment{ID: a.ID, Date: a.Date, Time: a.Time, Status: a.Status}
		if a.Client != nil {
			u.Client = a.Client.Name
		}
		if a.Service != nil {
			u.Service = a.Service.Name
		}
		if d, err := utils.ParseLocalDate(a.Date, now.Location()); err == nil {
			u.When = untilLabel(utils.DaysBetween(now, d))
		}
		upcoming = append(upcoming, u)
	}

	var sales []models.Sale
	config.DB.Where("company_id = ?", companyID).Order("sale_date DESC").Limit(3).Find(&sales)
	recent := make([]RecentSale, 0, len(sales))
	for _, s := range sales {
		var client models.User
		config.DB.Select("name").Where("id = ?", s.ClientID).First(&client)
		recent = append(recent, RecentSale{
			ID:         s.ID,
			SaleNumber: s.SaleNumber,
			Client:     client.Name,
			Total:      cur.FormatAmount(s.Total),
			SoldOn:     agoLabel(utils.DaysBetween(s.SaleDate, now)),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"todayAppointments":    todayAppointments,
		"pendingAppointments":  pendingAppointments,
		"totalClients":         totalClients,
		"monthlySales":         monthlySales,
		"monthlyRevenue":       monthlyRevenue,
		"monthlyRevenueText":   cur.FormatAmount(monthlyRevenue),
		"upcomingAppointments": upcoming,
		"recentSales":          recent,
	})
}

// companyCurrency loads the company's display currency; nil means default formatting.
func companyCurrency(companyID uuid.UUID) *models.Currency {
	var company models.Company
	if err := config.DB.Preload("Currency").Where("id = ?", companyID).First(&company).Error; err != nil {
		config.GetLogger().Warn("company currency lookup failed",
			zap.String("company_id", companyID.String()), zap.Error(err))
		return nil
	}
	return company.Currency
}

func untilLabel(days int) string {
	switch days {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

func agoLabel(days int) string {
	switch days {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}
