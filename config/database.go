package config

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDB opens the postgres pool named by DB_URL and stores it in DB.
func ConnectDB() {
	logLevel := logger.Warn
	if !IsProduction() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(AppConfig.DatabaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		GetLogger().Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		GetLogger().Fatal("failed to access connection pool", zap.Error(err))
	}
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Minute)

	DB = db
}
