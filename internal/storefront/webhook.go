package storefront

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// maxWebhookBytes caps uploaded analysis payloads at 5MB.
const maxWebhookBytes = 5 * 1024 * 1024

// registerWebhooks wires the analysis upload endpoint: payloads are written
// to disk as-is for the analysis tooling to pick up.
func registerWebhooks(e *echo.Echo) {
	e.POST("/webhooks/analysis", func(c echo.Context) error {
		body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBytes))
		if err != nil {
			logrus.WithError(err).Error("Failed to read analysis payload")
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		}
		if !json.Valid(body) {
			logrus.Warn("Rejected non-JSON analysis payload")
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid JSON payload"})
		}

		dir := viper.GetString("ANALYSIS_DIR")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logrus.WithError(err).WithField("dir", dir).Error("Failed to create analysis directory")
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store payload"})
		}

		name := fmt.Sprintf("webhook_%s_%s.json",
			time.Now().Format("20060102T150405"), uuid.NewString()[:8])
		file, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			logrus.WithError(err).WithField("file", name).Error("Failed to create analysis file")
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store payload"})
		}
		defer file.Close()

		if _, err := file.Write(body); err != nil {
			logrus.WithError(err).WithField("file", name).Error("Failed to write analysis file")
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store payload"})
		}

		logrus.WithField("file", name).Info("Analysis payload stored")
		return c.JSON(http.StatusOK, map[string]string{"status": "stored", "file": name})
	})
}
