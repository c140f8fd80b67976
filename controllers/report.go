package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookpos-backend/config"
	"bookpos-backend/models"
	"bookpos-backend/services/billing"
	"bookpos-backend/utils"
)

// ReportController handles all reporting functions
type ReportController struct {
	Now func() time.Time
}

func NewReportController() *ReportController {
	return &ReportController{Now: time.Now}
}

// AnalyticsSummary represents the Analytics data
type AnalyticsSummary struct {
	CurrentMonthRevenue   float64           `json:"currentMonthRevenue"`
	MonthGrowth           float64           `json:"monthGrowth"`
	CurrentQuarterRevenue float64           `json:"currentQuarterRevenue"`
	QuarterGrowth         float64           `json:"quarterGrowth"`
	CurrentYearRevenue    float64           `json:"currentYearRevenue"`
	YearGrowth            float64           `json:"yearGrowth"`
	TopServices           []LineSummary     `json:"topServices"`
	TopProducts           []LineSummary     `json:"topProducts"`
	TopClients            []ClientSummary   `json:"topClients"`
	QuickStats            QuickStatistics   `json:"quickStats"`
	Formatted             map[string]string `json:"formatted"`
}

type LineSummary struct {
	Name    string  `json:"name"`
	Count   float64 `json:"count"`
	Revenue float64 `json:"revenue"`
}

type ClientSummary struct {
	Name   string  `json:"name"`
	Visits int     `json:"visits"`
	Spent  float64 `json:"spent"`
}

type QuickStatistics struct {
	TotalClients          int     `json:"totalClients"`
	TotalSales            int     `json:"totalSales"`
	CompletedAppointments int     `json:"completedAppointments"`
	AvgMonthlySales       float64 `json:"avgMonthlySales"`
	AvgOrderValue         float64 `json:"avgOrderValue"`
}

// period is a half-open [start, end) range.
type period struct {
	start, end time.Time
}

func (p period) previous(months int) period {
	return period{p.start.AddDate(0, -months, 0), p.start}
}

func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}

	now := rc.Now()
	year, month, _ := now.Date()
	loc := now.Location()

	monthP := period{time.Date(year, month, 1, 0, 0, 0, 0, loc), time.Date(year, month+1, 1, 0, 0, 0, 0, loc)}
	qStart := quarterStart(now)
	quarterP := period{qStart, qStart.AddDate(0, 3, 0)}
	yearP := period{time.Date(year, 1, 1, 0, 0, 0, 0, loc), time.Date(year+1, 1, 1, 0, 0, 0, 0, loc)}

	var revenue [6]float64
	for i, p := range []period{monthP, monthP.previous(1), quarterP, quarterP.previous(3), yearP, yearP.previous(12)} {
		r, err := rc.getRevenue(companyID, p)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get revenue")
			return
		}
		revenue[i] = r
	}

	topServices, err := rc.getTopLines(companyID, string(billing.KindService), monthP, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top services")
		return
	}
	topProducts, err := rc.getTopLines(companyID, string(billing.KindProduct), monthP, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top products")
		return
	}
	topClients, err := rc.getTopClients(companyID, monthP, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top clients")
		return
	}
	quickStats, err := rc.getQuickStatistics(companyID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quick statistics")
		return
	}

	cur := companyCurrency(companyID)
	c.JSON(http.StatusOK, AnalyticsSummary{
		CurrentMonthRevenue:   revenue[0],
		MonthGrowth:           growthPercentage(revenue[0], revenue[1]),
		CurrentQuarterRevenue: revenue[2],
		QuarterGrowth:         growthPercentage(revenue[2], revenue[3]),
		CurrentYearRevenue:    revenue[4],
		YearGrowth:            growthPercentage(revenue[4], revenue[5]),
		TopServices:           topServices,
		TopProducts:           topProducts,
		TopClients:            topClients,
		QuickStats:            quickStats,
		Formatted: map[string]string{
			"currentMonthRevenue":   cur.FormatAmount(revenue[0]),
			"currentQuarterRevenue": cur.FormatAmount(revenue[2]),
			"currentYearRevenue":    cur.FormatAmount(revenue[4]),
			"avgOrderValue":         cur.FormatAmount(quickStats.AvgOrderValue),
		},
	})
}

func (rc *ReportController) getRevenue(companyID uuid.UUID, p period) (float64, error) {
	var total float64
	err := config.DB.Model(&models.Sale{}).
		Where("company_id = ? AND sale_date >= ? AND sale_date < ?", companyID, p.start, p.end).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

func quarterStart(date time.Time) time.Time {
	startMonth := time.Month((int(date.Month())-1)/3*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func growthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / previous) * 100
}

func (rc *ReportController) getTopLines(companyID uuid.UUID, kind string, p period, limit int) ([]LineSummary, error) {
	lines := make([]LineSummary, 0)
	err := config.DB.Table("sale_items").
		Select("sale_items.name AS name, SUM(sale_items.quantity) AS count, SUM(sale_items.line_total) AS revenue").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.company_id = ? AND sales.sale_date >= ? AND sales.sale_date < ? AND sales.deleted_at IS NULL AND sale_items.kind = ?",
			companyID, p.start, p.end, kind).
		Group("sale_items.name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&lines).Error
	return lines, err
}

func (rc *ReportController) getTopClients(companyID uuid.UUID, p period, limit int) ([]ClientSummary, error) {
	clients := make([]ClientSummary, 0)
	err := config.DB.Table("sales").
		Select("users.name AS name, COUNT(sales.id) AS visits, SUM(sales.total) AS spent").
		Joins("JOIN users ON users.id = sales.client_id").
		Where("sales.company_id = ? AND sales.sale_date >= ? AND sales.sale_date < ? AND sales.deleted_at IS NULL AND users.deleted_at IS NULL",
			companyID, p.start, p.end).
		Group("users.id, users.name").
		Order("spent DESC").
		Limit(limit).
		Scan(&clients).Error
	return clients, err
}

func (rc *ReportController) getQuickStatistics(companyID uuid.UUID) (QuickStatistics, error) {
	var stats QuickStatistics

	var clients, completed int64
	if err := config.DB.Model(&models.User{}).
		Where("company_id = ? AND role = ?", companyID, models.RoleClient).
		Count(&clients).Error; err != nil {
		return stats, err
	}
	stats.TotalClients = int(clients)

	if err := config.DB.Model(&models.Appointment{}).
		Where("company_id = ? AND status IN ?", companyID,
			[]string{models.AppointmentCompleted, models.AppointmentPartiallyCompleted}).
		Count(&completed).Error; err != nil {
		return stats, err
	}
	stats.CompletedAppointments = int(completed)

	// Monthly buckets are built here so the query stays portable across drivers.
	var sales []models.Sale
	if err := config.DB.Select("sale_date", "total").
		Where("company_id = ?", companyID).
		Find(&sales).Error; err != nil {
		return stats, err
	}
	stats.TotalSales = len(sales)
	if len(sales) == 0 {
		return stats, nil
	}

	months := make(map[string]int)
	var revenue float64
	for _, s := range sales {
		months[s.SaleDate.Format("2006-01")]++
		revenue += s.Total
	}
	stats.AvgMonthlySales = float64(len(sales)) / float64(len(months))
	stats.AvgOrderValue = billing.RoundMoney(revenue / float64(len(sales)))
	return stats, nil
}
