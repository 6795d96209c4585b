// Package db provides database connection and management functionality
package db

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/models"
)

// Setup initializes the PostgreSQL database connection and runs migrations
// for the durable key/value store. It reads configuration from environment
// variables using viper. An error is returned instead of aborting so callers
// can degrade to the in-memory store when the database is unavailable.
func Setup() (*gorm.DB, error) {
	// Read database configuration from environment variables
	host := viper.GetString("DB_HOST")
	user := viper.GetString("DB_USER")
	password := viper.GetString("DB_PASSWORD")
	dbname := viper.GetString("DB_NAME")
	port := viper.GetString("DB_PORT")

	// Set default values if environment variables are not provided
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "5432"
	}
	if dbname == "" {
		dbname = "storefront"
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.WithError(err).Error("Failed to connect to database")
		return nil, err
	}

	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		logrus.WithError(err).Error("Failed to migrate KV table")
		return nil, err
	}

	logrus.Info("Database initialized successfully")
	return db, nil
}
