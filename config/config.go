package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	DatabaseURL       string `mapstructure:"DB_URL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	JWTExpiryHours    int    `mapstructure:"JWT_EXPIRY_HOURS"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`

	// AutoMigrate is off when the schema is managed outside this service.
	AutoMigrate bool `mapstructure:"AUTO_MIGRATE"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	CatalogCacheTTL   time.Duration `mapstructure:"CATALOG_CACHE_TTL"`
	BookingSessionTTL time.Duration `mapstructure:"BOOKING_SESSION_TTL"`

	// Twilio / reminders.
	TwilioAccountSID     string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken      string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber    string `mapstructure:"TWILIO_PHONE_NUMBER"`
	TwilioWhatsAppNumber string `mapstructure:"TWILIO_WHATSAPP_NUMBER"`
	ReminderCron         string `mapstructure:"REMINDER_CRON"`
}

var AppConfig Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("CATALOG_CACHE_TTL", "5m")
	v.SetDefault("BOOKING_SESSION_TTL", "30m")
	v.SetDefault("TWILIO_ACCOUNT_SID", "")
	v.SetDefault("TWILIO_AUTH_TOKEN", "")
	v.SetDefault("TWILIO_PHONE_NUMBER", "")
	v.SetDefault("TWILIO_WHATSAPP_NUMBER", "")
	v.SetDefault("REMINDER_CRON", "0 9 * * *")
}

func IsProduction() bool {
	return AppConfig.Env == "production"
}

// AllowedOrigins splits CORS_ORIGINS into a clean list, falling back to the
// local frontend when nothing is configured.
func AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(AppConfig.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}
