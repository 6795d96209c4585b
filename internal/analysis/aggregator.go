package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/models"
)

// aggregator accumulates analytics events between flushes.
type aggregator struct {
	mu      sync.Mutex
	counts  map[string]int
	revenue decimal.Decimal
	dir     string
}

// snapshot is the on-disk analysis format.
type snapshot struct {
	GeneratedAt time.Time      `json:"generated_at"`
	EventCounts map[string]int `json:"event_counts"`
	Revenue     string         `json:"revenue"`
}

func newAggregator(dir string) *aggregator {
	return &aggregator{
		counts:  make(map[string]int),
		revenue: decimal.Zero,
		dir:     dir,
	}
}

func (a *aggregator) handleEvent(data []byte) {
	var event models.AnalyticsEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logrus.WithError(err).Error("Error unmarshaling analytics event")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.counts[event.Name]++

	// AddToCart and InitiateCheckout carry a monetary value.
	if event.Name == models.EventAddToCart || event.Name == models.EventInitiateCheckout {
		if raw, ok := event.Params["value"].(string); ok {
			if value, err := decimal.NewFromString(raw); err == nil {
				a.revenue = a.revenue.Add(value)
			}
		}
	}
}

// flush writes the current aggregate to a timestamped JSON file and resets
// the counters.
func (a *aggregator) flush() error {
	a.mu.Lock()
	if len(a.counts) == 0 {
		a.mu.Unlock()
		return nil
	}
	snap := snapshot{
		GeneratedAt: time.Now(),
		EventCounts: a.counts,
		Revenue:     a.revenue.String(),
	}
	a.counts = make(map[string]int)
	a.revenue = decimal.Zero
	a.mu.Unlock()

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return err
	}

	name := fmt.Sprintf("analysis_%s.json", snap.GeneratedAt.Format("20060102T150405"))
	file, err := os.Create(filepath.Join(a.dir, name))
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", " ")
	if err := enc.Encode(snap); err != nil {
		return err
	}

	logrus.WithField("file", name).Info("Analysis snapshot saved")
	return nil
}
