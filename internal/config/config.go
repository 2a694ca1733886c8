package config

import (
	"log"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env          string        `yaml:"env" env:"ENV" env-default:"local"`
	Timezone     string        `yaml:"timezone" env:"TIMEZONE" env-default:"Asia/Tehran"`
	CalendarType string        `yaml:"calendar_type" env:"CALENDAR_TYPE" env-default:"gregorian"`
	Database     Database      `yaml:"database"`
	HTTPServer   HTTPServer    `yaml:"http_server"`
	Auth         Auth          `yaml:"auth"`
	Reminders    Reminders     `yaml:"reminders"`
	Redis        Redis         `yaml:"redis"`
	Notify       Notifications `yaml:"notifications"`
	Calendar     Calendar      `yaml:"calendar"`
}

type Database struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-required:"true"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"DB_NAME" env-required:"true"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Auth struct {
	AdminJWTSecret string `yaml:"admin_jwt_secret" env:"ADMIN_JWT_SECRET"`
}

type Reminders struct {
	Enabled     bool          `yaml:"enabled" env:"REMINDERS_ENABLED" env-default:"true"`
	Interval    time.Duration `yaml:"interval" env:"REMINDERS_INTERVAL" env-default:"15m"`
	TierTimeout time.Duration `yaml:"tier_timeout" env-default:"5m"`
	LeaseTTL    time.Duration `yaml:"lease_ttl" env-default:"10m"`
}

// Redis is optional. An empty address disables the scheduler lease.
type Redis struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Notifications struct {
	Enabled        bool   `yaml:"enabled" env:"NOTIFICATIONS_ENABLED" env-default:"true"`
	Provider       string `yaml:"provider" env:"EMAIL_PROVIDER" env-default:"stub"`
	AdminEmail     string `yaml:"admin_email" env:"ADMIN_EMAIL"`
	SiteName       string `yaml:"site_name" env:"SITE_NAME" env-default:"HB Booking"`
	FromEmail      string `yaml:"from_email" env:"EMAIL_FROM"`
	SendGridAPIKey string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
}

type Calendar struct {
	Integration string `yaml:"integration" env:"CALENDAR_INTEGRATION" env-default:"none"`
	ICalDir     string `yaml:"ical_dir" env:"ICAL_DIR" env-default:"./data/icals"`
	Google      Google `yaml:"google"`
}

type Google struct {
	CalendarID   string `yaml:"calendar_id" env:"GOOGLE_CALENDAR_ID" env-default:"primary"`
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	RefreshToken string `yaml:"refresh_token" env:"GOOGLE_REFRESH_TOKEN"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, err
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Location resolves the business time zone used for slot and reminder arithmetic.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
