package main

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/analysis"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/analytics"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/catalog"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/checkout"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/db"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/kafka"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/kvstore"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/session"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/storefront"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/variant"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/pkg/config"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/pkg/logger"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	if err := config.Load(); err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Durable preference store, degrading to memory when Postgres is down
	var prefStore kvstore.Store
	if dbConn, err := db.Setup(); err != nil {
		logrus.WithError(err).Warn("Durable store unavailable, preferences held in memory")
		prefStore = kvstore.NewMemoryStore()
	} else {
		prefStore = kvstore.NewGormStore(dbConn)
	}
	sessionStore := kvstore.NewMemoryStore()

	// One-shot housekeeping: rewrite obsolete variant ids in persisted state
	variant.RewriteStore(prefStore)
	variant.RewriteStore(sessionStore)

	// Analytics pipeline; a missing broker only disables event emission
	producer, err := kafka.SetupProducer()
	if err != nil {
		logrus.WithError(err).Warn("Kafka unavailable, analytics events disabled")
		producer = nil
	}
	emitter := analytics.NewEmitter(producer, viper.GetString("KAFKA_ANALYTICS_TOPIC"))

	// Static product catalog with periodic refresh
	cat, err := catalog.NewService(viper.GetString("CATALOG_PATH"))
	if err != nil {
		logrus.Fatalf("Failed to load catalog: %v", err)
	}
	cat.StartRefresh(viper.GetString("CATALOG_REFRESH"))

	// Sessions with cart event analytics and periodic expiry sweeps
	ttl := time.Duration(viper.GetInt("SESSION_TTL_MINUTES")) * time.Minute
	sessions := session.NewManager(ttl, sessionStore, emitter.CartSubscriber)
	sessions.StartSweeper(viper.GetString("SESSION_SWEEP"))

	handoff := checkout.NewHandoff(viper.GetString("CHECKOUT_URL"))

	// Start services
	storefront.Start(cat, sessions, emitter, handoff, prefStore)
	analysis.Start()

	logrus.Info("Application started")

	// Keep the application running
	select {}
}
