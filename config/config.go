package config

import (
	"SafeTube/models"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBLogMode  bool

	Timezone string

	JWTSecret     string
	ChildTokenTTL time.Duration

	FirebaseCredentialsPath string

	YouTubeAPIKey     string
	YouTubeDailyQuota int
	CatalogTimeout    time.Duration
	CatalogCacheSize  int
	CatalogCacheTTL   time.Duration

	ResendAPIKey string
	FromEmail    string
}

// Load reads .env (when present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8000")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_LOG_MODE", false)
	v.SetDefault("TIMEZONE", "Asia/Almaty")
	v.SetDefault("CHILD_TOKEN_TTL", "2h")
	v.SetDefault("YOUTUBE_DAILY_QUOTA", 10000)
	v.SetDefault("CATALOG_TIMEOUT", "5s")
	v.SetDefault("CATALOG_CACHE_SIZE", 1000)
	v.SetDefault("CATALOG_CACHE_TTL", "1h")

	cfg := &Config{
		Port:                    v.GetString("PORT"),
		DBHost:                  v.GetString("DB_HOST"),
		DBPort:                  v.GetString("DB_PORT"),
		DBUser:                  v.GetString("DB_USER"),
		DBPassword:              v.GetString("DB_PASSWORD"),
		DBName:                  v.GetString("DB_NAME"),
		DBSSLMode:               v.GetString("DB_SSLMODE"),
		DBLogMode:               v.GetBool("DB_LOG_MODE"),
		Timezone:                v.GetString("TIMEZONE"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		ChildTokenTTL:           v.GetDuration("CHILD_TOKEN_TTL"),
		FirebaseCredentialsPath: v.GetString("FIREBASE_CREDENTIALS_PATH"),
		YouTubeAPIKey:           v.GetString("YOUTUBE_API_KEY"),
		YouTubeDailyQuota:       v.GetInt("YOUTUBE_DAILY_QUOTA"),
		CatalogTimeout:          v.GetDuration("CATALOG_TIMEOUT"),
		CatalogCacheSize:        v.GetInt("CATALOG_CACHE_SIZE"),
		CatalogCacheTTL:         v.GetDuration("CATALOG_CACHE_TTL"),
		ResendAPIKey:            v.GetString("RESEND_API_KEY"),
		FromEmail:               v.GetString("FROM_EMAIL"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	return cfg, nil
}

// Location returns the configured family time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SSLMode defaults to require for render.com hosts and disable elsewhere.
func (c *Config) SSLMode() string {
	if c.DBSSLMode != "" {
		return c.DBSSLMode
	}
	if strings.Contains(c.DBHost, "render.com") {
		return "require"
	}
	return "disable"
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.SSLMode(), c.Timezone)
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	log.Printf("Connecting to database: host=%s user=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBName, cfg.DBPort, cfg.SSLMode())

	logLevel := logger.Silent
	if cfg.DBLogMode {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Successfully connected to database!")
	DB = db
	return db, nil
}

// AllModels lists every table the service owns.
func AllModels() []interface{} {
	return []interface{}{
		&models.Parent{},
		&models.Child{},
		&models.ScreenTimeRule{},
		&models.ContentFilter{},
		&models.ApprovedChannel{},
		&models.ApprovedVideo{},
		&models.BlockedContent{},
		&models.ApprovalRequest{},
		&models.ChildSession{},
		&models.Device{},
		&models.SessionSync{},
		&models.ActivityLog{},
		&models.Notification{},
		&models.ApiQuota{},
		&models.Translation{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
