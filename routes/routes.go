package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bookpos-backend/config"
	"bookpos-backend/controllers"
	"bookpos-backend/models"
	"bookpos-backend/services/booking"
	"bookpos-backend/services/catalog"
	"bookpos-backend/services/reminder"
	"bookpos-backend/utils"
)

// Deps are the long-lived services the handlers share.
type Deps struct {
	Catalog    *catalog.Catalog
	Sessions   booking.SessionStore
	Dispatcher booking.Dispatcher
	Reminders  *reminder.Service
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(config.Recovery())
	r.Use(config.PerformanceLogger())
	r.Use(utils.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	owner := utils.RequireRole(models.RoleCompanyOwner)
	team := utils.RequireRole(models.RoleCompanyOwner, models.RoleStaff)

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Booking wizard
		bookingController := controllers.NewBookingController(deps.Sessions, deps.Dispatcher, deps.Catalog)
		api.GET("/booking/slots", bookingController.Slots)
		sessions := api.Group("/booking/sessions")
		{
			sessions.POST("", bookingController.CreateSession)
			sessions.GET("/:id", bookingController.GetSession)
			sessions.PUT("/:id", bookingController.UpdateSession)
			sessions.POST("/:id/next", bookingController.Next)
			sessions.POST("/:id/previous", bookingController.Previous)
			sessions.POST("/:id/reset", bookingController.Reset)
			sessions.DELETE("/:id", bookingController.Cancel)
		}

		// Appointments and completion
		appointmentController := controllers.NewAppointmentController(deps.Catalog)
		appointments := api.Group("/appointments")
		{
			appointments.GET("", appointmentController.ListAppointments)
			appointments.GET("/:id", appointmentController.GetAppointment)
			appointments.PUT("/:id/status", team, appointmentController.UpdateAppointmentStatus)
			appointments.GET("/:id/billing", team, appointmentController.GetBilling)
			appointments.POST("/:id/complete", team, appointmentController.CompleteAppointment)
		}

		saleController := controllers.NewSaleController(deps.Catalog)
		sales := api.Group("/sales", team)
		{
			sales.GET("", saleController.ListSales)
			sales.GET("/:id", saleController.GetSale)
			sales.PUT("/:id", saleController.UpdateSale)
			sales.DELETE("/:id", owner, saleController.DeleteSale)
		}

		// Catalog
		catalogController := controllers.NewCatalogController(deps.Catalog)
		services := api.Group("/services")
		{
			services.GET("", catalogController.ListServices)
			services.GET("/:id", catalogController.GetService)
			services.POST("", owner, catalogController.CreateService)
			services.PUT("/:id", owner, catalogController.UpdateService)
			services.DELETE("/:id", owner, catalogController.DeleteService)
		}

		products := api.Group("/products")
		{
			products.GET("", catalogController.ListProducts)
			products.GET("/:id", catalogController.GetProduct)
			products.POST("", owner, catalogController.CreateProduct)
			products.PUT("/:id", owner, catalogController.UpdateProduct)
			products.DELETE("/:id", owner, catalogController.DeleteProduct)
			products.GET("/:id/variants", catalogController.ListVariants)
			products.POST("/:id/variants", owner, catalogController.CreateVariant)
			products.PUT("/:id/variants/:variantId", owner, catalogController.UpdateVariant)
			products.DELETE("/:id/variants/:variantId", owner, catalogController.DeleteVariant)
		}

		spaces := api.Group("/spaces")
		{
			spaces.GET("", catalogController.ListSpaces)
			spaces.POST("", owner, catalogController.CreateSpace)
			spaces.PUT("/:id", owner, catalogController.UpdateSpace)
			spaces.DELETE("/:id", owner, catalogController.DeleteSpace)
		}

		staff := api.Group("/staff")
		{
			staff.GET("", catalogController.ListStaff)
			staff.POST("", owner, catalogController.CreateStaff)
			staff.PUT("/:id", owner, catalogController.UpdateStaff)
			staff.DELETE("/:id", owner, catalogController.DeleteStaff)
		}

		api.GET("/users", team, catalogController.ListUsers)
		api.POST("/users", team, catalogController.CreateUser)

		api.GET("/currencies", catalogController.ListCurrencies)
		api.GET("/currencies/:id", catalogController.GetCurrency)

		// Company settings
		companyController := controllers.NewCompanyController(deps.Catalog)
		api.GET("/company", companyController.GetCompany)
		api.PUT("/company", owner, companyController.UpdateCompany)

		// Dashboard and reports
		dashboardController := controllers.NewDashboardController()
		api.GET("/dashboard", team, dashboardController.GetDashboardOverview)

		reportController := controllers.NewReportController()
		api.GET("/reports", owner, reportController.GetReportAnalytics)

		// Reminders
		reminderController := controllers.NewReminderController(deps.Reminders)
		templates := api.Group("/reminder-templates", owner)
		{
			templates.POST("", reminderController.CreateReminderTemplate)
			templates.GET("", reminderController.GetReminderTemplates)
			templates.GET("/:id", reminderController.GetReminderTemplate)
			templates.PUT("/:id", reminderController.UpdateReminderTemplate)
			templates.DELETE("/:id", reminderController.DeleteReminderTemplate)
		}
		api.GET("/reminders/logs", owner, reminderController.GetReminderLogs)
		api.POST("/reminders/send", owner, reminderController.SendReminders)
	}

	return r
}
