package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/roymathewwww/canteen-rush-ai/models"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// LoadEnv pulls .env into the process if present. Missing file is
// fine in containers where env comes from the runtime.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file, using process environment")
	}
}

// OfflineMode selects the in-memory store at startup instead of
// Postgres. The choice is made once here, never per call.
func OfflineMode() bool {
	v, _ := strconv.ParseBool(os.Getenv("OFFLINE_MODE"))
	return v
}

func VendorID() string {
	if v := os.Getenv("VENDOR_ID"); v != "" {
		return v
	}
	return "canteen_1"
}

func ChefCount() int {
	if n, err := strconv.Atoi(os.Getenv("CHEF_COUNT")); err == nil && n > 0 {
		return n
	}
	return 2
}

func Port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}

func InitDB() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Device{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}
