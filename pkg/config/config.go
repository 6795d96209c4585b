package config

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Load initializes configuration from environment variables and .env file.
func Load() error {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "storefront")
	viper.SetDefault("STOREFRONT_PORT", 8080)
	viper.SetDefault("ANALYSIS_PORT", "8086")
	viper.SetDefault("STORE_ID", "uk-001")
	viper.SetDefault("CATALOG_PATH", "data/products.json")
	viper.SetDefault("CATALOG_REFRESH", "@every 10m")
	viper.SetDefault("CHECKOUT_URL", "https://checkout.example.com/api/checkouts")
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_ANALYTICS_TOPIC", "ANALYTICS_EVENTS")
	viper.SetDefault("SESSION_TTL_MINUTES", 30)
	viper.SetDefault("SESSION_SWEEP", "@every 5m")
	viper.SetDefault("ANALYSIS_DIR", "analysis")
	viper.SetDefault("ANALYSIS_FLUSH", "@every 1m")

	if err := viper.ReadInConfig(); err != nil {
		logrus.WithError(err).Warn("Failed to read .env file, using environment variables")
	}

	logrus.Info("Configuration loaded successfully")
	return nil
}
