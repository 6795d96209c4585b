// Package analysis implements the analytics aggregation service which
// consumes storefront events from Kafka and flushes analysis snapshots to
// disk for downstream reporting.
package analysis

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/kafka"
)

// jobIDs maps job names to their cron entry IDs for management
var jobIDs = make(map[string]cron.EntryID)

// Start initializes and runs the analytics analysis service. It:
// 1. Sets up the event aggregator and its periodic disk flush
// 2. Initializes HTTP server with health check endpoint
// 3. Starts consuming analytics events from Kafka
//
// The service listens on ANALYSIS_PORT (default: 8086) and consumes messages
// from KAFKA_ANALYTICS_TOPIC (default: ANALYTICS_EVENTS)
func Start() {
	agg := newAggregator(viper.GetString("ANALYSIS_DIR"))

	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	port := os.Getenv("ANALYSIS_PORT")
	if port == "" {
		port = viper.GetString("ANALYSIS_PORT")
	}
	if port == "" {
		port = "8086"
	}

	logrus.WithField("port", port).Info("Starting Analysis Service")
	go func() {
		if err := e.Start("0.0.0.0:" + port); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Analysis service shutdown")
		}
	}()

	c := cron.New()
	id, err := c.AddFunc(viper.GetString("ANALYSIS_FLUSH"), func() {
		if err := agg.flush(); err != nil {
			logrus.WithError(err).Error("Failed to flush analysis snapshot")
		}
	})
	if err != nil {
		logrus.WithError(err).Fatal("Invalid cron expression")
	}
	jobIDs["analysisFlush"] = id
	c.Start()

	topic := viper.GetString("KAFKA_ANALYTICS_TOPIC")
	if topic == "" {
		topic = "ANALYTICS_EVENTS"
	}
	if err := kafka.SetupConsumer(topic, agg.handleEvent); err != nil {
		logrus.WithError(err).Warn("Analytics consumer unavailable, analysis snapshots disabled")
	}
}
