package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Telegram.
	TelegramToken        string `mapstructure:"TELEGRAM_TOKEN"`
	PaymentProviderToken string `mapstructure:"PAYMENT_PROVIDER_TOKEN"`
	AdminChatID          int64  `mapstructure:"ADMIN_CHAT_ID"`

	// Ops API.
	AdminAPIToken string `mapstructure:"ADMIN_API_TOKEN"`

	// MongoDB.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Marketplace knobs.
	FreeOrdersStart int `mapstructure:"FREE_ORDERS_START"`

	// Reconciliation sweep windows.
	SweepInterval       time.Duration `mapstructure:"SWEEP_INTERVAL"`
	SweepRetryBackoff   time.Duration `mapstructure:"SWEEP_RETRY_BACKOFF"`
	ConfirmTimeout      time.Duration `mapstructure:"CONFIRM_TIMEOUT"`
	DocumentRetention   time.Duration `mapstructure:"DOCUMENT_RETENTION"`
	LimiterIdleCutoff   time.Duration `mapstructure:"LIMITER_IDLE_CUTOFF"`
	FormSessionLifetime time.Duration `mapstructure:"FORM_SESSION_LIFETIME"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("TELEGRAM_TOKEN", "")
	viper.SetDefault("PAYMENT_PROVIDER_TOKEN", "")
	viper.SetDefault("ADMIN_CHAT_ID", 0)
	viper.SetDefault("ADMIN_API_TOKEN", "")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "mastera")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("FREE_ORDERS_START", 3)
	viper.SetDefault("SWEEP_INTERVAL", 6*time.Hour)
	viper.SetDefault("SWEEP_RETRY_BACKOFF", time.Hour)
	viper.SetDefault("CONFIRM_TIMEOUT", 24*time.Hour)
	viper.SetDefault("DOCUMENT_RETENTION", 72*time.Hour)
	viper.SetDefault("LIMITER_IDLE_CUTOFF", 24*time.Hour)
	viper.SetDefault("FORM_SESSION_LIFETIME", 30*time.Minute)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
