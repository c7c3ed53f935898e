package main

import (
	"fmt"
	"log"

	"gsipp-backend/models"
	"gsipp-backend/services"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MigrateConfig only needs the database and the legacy checkout; the
// server's storage settings are irrelevant for a one-shot import.
type MigrateConfig struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	LegacyDir  string `envconfig:"LEGACY_DIR" default:"./legacy"`
}

func (c *MigrateConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	_ = godotenv.Load()
	var cfg MigrateConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}

	logging.Info("Running database auto-migration...")
	db.AutoMigrate(&models.Member{}, &models.NewsItem{}, &models.Publication{},
		&models.Event{}, &models.Edital{}, &models.AdminUser{})

	migrator := services.Migrator{DB: db, Logger: logging}
	migrator.Run(cfg.LegacyDir)

	logging.Info("Legacy import finished.")
}
