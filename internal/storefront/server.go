// Package storefront implements the HTTP surface of the fragrance store:
// catalog listing and detail routes, the session cart, the checkout handoff
// and the analysis webhook.
package storefront

import (
	"fmt"
	"net"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/analytics"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/catalog"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/checkout"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/kvstore"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/session"
)

func Start(cat *catalog.Service, sessions *session.Manager, emitter *analytics.Emitter, handoff *checkout.Handoff, prefs kvstore.Store) {
	e := echo.New()
	registerHandlers(e, cat, sessions, emitter, handoff, prefs)

	port := findAvailablePort(viper.GetInt("STOREFRONT_PORT"), "Storefront HTTP")
	go func() {
		logrus.WithField("port", port).Info("Starting Storefront HTTP server")
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil {
			logrus.Fatalf("Storefront HTTP server failed: %v", err)
		}
	}()
}

func findAvailablePort(basePort int, serviceName string) int {
	port := basePort
	maxAttempts := 10

	for attempt := 0; attempt < maxAttempts; attempt++ {
		addr := fmt.Sprintf(":%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			listener.Close()
			logrus.WithFields(logrus.Fields{
				"service": serviceName,
				"port":    port,
			}).Info("Found available port")
			return port
		}
		logrus.WithFields(logrus.Fields{
			"service": serviceName,
			"port":    port,
		}).Warn("Port in use, trying next port")
		port++
	}
	logrus.WithFields(logrus.Fields{
		"service": serviceName,
		"port":    port,
	}).Warn("Failed to find available port, using default")
	return port
}
