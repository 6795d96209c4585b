// Package catalog serves the static product dataset and the filter/sort
// pipeline used by the product listing endpoints.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/models"
)

// jobIDs maps job names to their cron entry IDs for management
var jobIDs = make(map[string]cron.EntryID)

// Service holds the loaded catalog. Products are read-only; every derived
// view is a new slice over the same values.
type Service struct {
	mu       sync.RWMutex
	products []models.Product
	path     string
}

// NewService loads the catalog from the given JSON file.
func NewService(path string) (*Service, error) {
	s := &Service{path: path}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load re-reads the catalog file and swaps the product set atomically.
func (s *Service) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()

	logrus.WithField("count", len(products)).Info("Catalog loaded")
	return nil
}

// StartRefresh schedules periodic reloads of the catalog file. A failed
// reload keeps serving the previous dataset.
func (s *Service) StartRefresh(schedule string) {
	c := cron.New()
	id, err := c.AddFunc(schedule, func() {
		if err := s.Load(); err != nil {
			logrus.WithError(err).Error("Catalog refresh failed, keeping previous dataset")
		}
	})
	if err != nil {
		logrus.WithError(err).Fatal("Invalid cron expression")
	}
	jobIDs["catalogRefresh"] = id
	c.Start()
	logrus.WithField("schedule", schedule).Info("Scheduler started for catalog refresh")
}

// AllProducts returns the catalog in its original (featured) order.
func (s *Service) AllProducts() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// ProductByHandle looks a product up by its slug.
func (s *Service) ProductByHandle(handle string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.Handle == handle {
			return p, true
		}
	}
	return models.Product{}, false
}

// ProductsByCategory returns every product in the given category.
func (s *Service) ProductsByCategory(category string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Product
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// FilterProducts applies the token filter pipeline over the full catalog.
func (s *Service) FilterProducts(tokens []string) []models.Product {
	return Filter(s.AllProducts(), tokens)
}

// Categories lists the distinct categories, sorted.
func (s *Service) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}

// Brands lists the distinct brand names, sorted.
func (s *Service) Brands() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	add := func(b string) {
		if b != "" && !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	for _, p := range s.products {
		add(p.PrimaryBrand)
		for _, b := range p.Brands {
			add(b)
		}
	}
	sort.Strings(out)
	return out
}

// Stats summarizes the loaded catalog.
func (s *Service) Stats() models.ProductStats {
	s.mu.RLock()
	products := s.products
	onSale := 0
	var min, max models.Price
	for _, p := range products {
		if p.OnSale {
			onSale++
		}
		if !p.Regular.Valid {
			continue
		}
		if !min.Valid || p.Regular.Amount.LessThan(min.Amount) {
			min = p.Regular
		}
		if !max.Valid || p.Regular.Amount.GreaterThan(max.Amount) {
			max = p.Regular
		}
	}
	total := len(products)
	s.mu.RUnlock()

	return models.ProductStats{
		TotalProducts: total,
		OnSale:        onSale,
		Categories:    len(s.Categories()),
		Brands:        len(s.Brands()),
		PriceRange:    models.PriceRange{Min: min, Max: max},
	}
}
