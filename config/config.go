package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// MemoryDatabaseURL is the sentinel DATABASE_URL value that selects the
// in-memory storage instead of MongoDB.
const MemoryDatabaseURL = "memory"

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Session configuration.
	SessionSecret string `mapstructure:"SESSION_SECRET"`
	SessionTTLMin int    `mapstructure:"SESSION_TTL_MIN"`

	// Redis configuration (session and wizard stores).
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`

	// Seeded admin accounts use this password when first created.
	DefaultAdminPassword string `mapstructure:"DEFAULT_ADMIN_PASSWORD"`

	// Comma-separated origin allow-list for CORS.
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	// WhatsApp gateway used for booking and payment notifications.
	WhatsAppAPIURL string `mapstructure:"WHATSAPP_API_URL"`
	WhatsAppToken  string `mapstructure:"WHATSAPP_TOKEN"`
	AdminPhones    string `mapstructure:"ADMIN_PHONES"`
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
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "atlastours")
	viper.SetDefault("SESSION_SECRET", "")
	viper.SetDefault("SESSION_TTL_MIN", 720)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("DEFAULT_ADMIN_PASSWORD", "changeme")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("WHATSAPP_API_URL", "")
	viper.SetDefault("WHATSAPP_TOKEN", "")
	viper.SetDefault("ADMIN_PHONES", "")

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

// UseMemoryStorage reports whether the sentinel database URL is configured.
func UseMemoryStorage() bool {
	return AppConfig.DatabaseURL == MemoryDatabaseURL
}

// Origins returns the parsed CORS origin allow-list.
func (c Config) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// AdminPhoneList returns the configured admin WhatsApp numbers.
func (c Config) AdminPhoneList() []string {
	parts := strings.Split(c.AdminPhones, ",")
	phones := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			phones = append(phones, trimmed)
		}
	}
	return phones
}
