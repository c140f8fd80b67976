package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"bookpos-backend/config"
	"bookpos-backend/models"
	"bookpos-backend/routes"
	"bookpos-backend/services/booking"
	"bookpos-backend/services/catalog"
	"bookpos-backend/services/reminder"
)

func main() {
	config.LoadConfig()
	config.InitLogger()
	logger := config.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	config.ConnectDB()
	if config.AppConfig.AutoMigrate {
		if err := config.DB.AutoMigrate(models.All()...); err != nil {
			logger.Fatal("auto migration failed", zap.Error(err))
		}
	} else {
		logger.Info("auto migration disabled, using the existing schema")
	}
	schema := config.ResolveSchema(config.DB)
	config.ConnectRedis()

	var cache *catalog.Cache
	var sessions booking.SessionStore
	if config.Redis != nil {
		cache = catalog.NewCache(config.Redis, config.AppConfig.CatalogCacheTTL, logger)
		sessions = booking.NewRedisSessionStore(config.Redis, config.AppConfig.BookingSessionTTL)
	} else {
		sessions = booking.NewMemorySessionStore(config.AppConfig.BookingSessionTTL)
	}
	cat := catalog.New(config.DB, cache, schema.HasPriority)

	// Appointment creation goes through the queue when redis is up.
	worker := booking.NewWorker(config.DB, logger)
	var dispatcher booking.Dispatcher
	var queueServer *asynq.Server
	if config.Redis != nil {
		client := asynq.NewClient(config.QueueOpt())
		defer client.Close()
		dispatcher = booking.NewQueueDispatcher(client, logger)

		srv, mux := booking.NewServer(config.QueueOpt(), worker)
		if err := srv.Start(mux); err != nil {
			logger.Fatal("failed to start appointment worker", zap.Error(err))
		}
		queueServer = srv
	} else {
		logger.Warn("redis unavailable, appointments are persisted in-process")
		dispatcher = booking.NewInlineDispatcher(worker)
	}

	var reminders *reminder.Service
	if config.AppConfig.TwilioAccountSID != "" {
		sender := reminder.NewTwilioSender(
			config.AppConfig.TwilioAccountSID,
			config.AppConfig.TwilioAuthToken,
			config.AppConfig.TwilioPhoneNumber,
			config.AppConfig.TwilioWhatsAppNumber,
		)
		reminders = reminder.NewService(config.DB, sender, config.AppConfig.TwilioWhatsAppNumber != "", logger)
		scheduler, err := reminders.StartScheduler(config.AppConfig.ReminderCron)
		if err != nil {
			logger.Fatal("invalid reminder schedule", zap.Error(err))
		}
		defer scheduler.Stop()
	} else {
		logger.Warn("twilio not configured, reminders disabled")
	}

	r := routes.SetupRouter(routes.Deps{
		Catalog:    cat,
		Sessions:   sessions,
		Dispatcher: dispatcher,
		Reminders:  reminders,
	})
	printRoutes(r, logger)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: r,
	}
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if queueServer != nil {
		queueServer.Shutdown()
	}
}

func printRoutes(r *gin.Engine, logger *zap.Logger) {
	for _, route := range r.Routes() {
		logger.Debug("route", zap.String("method", route.Method), zap.String("path", route.Path))
	}
}
