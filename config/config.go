package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime parameter, loaded from environment variables.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"4242"`

	JWTSecret       string `envconfig:"JWT_SECRET" required:"true"`
	SessionTTLHours int    `envconfig:"SESSION_TTL_HOURS" default:"12"`
	AdminEmail      string `envconfig:"ADMIN_EMAIL"`
	AdminPassword   string `envconfig:"ADMIN_PASSWORD"`

	// Expired admin sessions are purged on this schedule.
	SessionPurgeSchedule string `envconfig:"SESSION_PURGE_SCHEDULE" default:"0 * * * *"`

	// Crossref works endpoint for DOI-based publication imports.
	CrossrefBaseURL string `envconfig:"CROSSREF_BASE_URL" default:"https://api.crossref.org/works"`

	// S3-compatible object storage for uploaded images and edital PDFs.
	S3Key      string `envconfig:"S3_KEY" required:"true"`
	S3Secret   string `envconfig:"S3_SECRET" required:"true"`
	S3URL      string `envconfig:"S3_URL" required:"true"`
	S3Region   string `envconfig:"S3_REGION" required:"true"`
	S3Bucket   string `envconfig:"S3_BUCKET" required:"true"`
	UploadPath string `envconfig:"UPLOAD_PATH" default:"uploads"`
}

// DSN returns the Data Source Name for the PostgreSQL connection.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
