package database

import (
	"fmt"
	"log"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/fashionai/fashionai/app/models"
	"github.com/fashionai/fashionai/internal/pkg/env"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

var DB *gorm.DB

func SetupDatabase() {
	var err error

	// DB_DRIVER=sqlite keeps local development and CI self-contained; MySQL
	// is the production backend.
	if env.GetEnv("DB_DRIVER", "mysql") == "sqlite" {
		DB, err = gorm.Open(sqlite.Open(env.GetEnv("DB_PATH", "fashionai.db")), &gorm.Config{})
		if err != nil {
			panic(err)
		}
		migrate(DB)
		return
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                      dsn,
			DefaultStringSize:        256,
			DisableDatetimePrecision: true,
		}), &gorm.Config{})
		if err == nil {
			migrate(DB)
			return
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}

func migrate(db *gorm.DB) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Credit{},
		&models.CreditUsage{},
		&models.Referral{},
		&models.PaymentWebhookEvent{},
		&models.GeneratedImage{},
	); err != nil {
		log.Printf("auto migration failed: %v", err)
	}
}

// GetDB returns the global database handle.
func GetDB() *gorm.DB {
	return DB
}
