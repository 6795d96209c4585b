// Package models defines the storefront domain types shared across services.
package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Price is a decimal amount that tolerates both string ("49.90") and numeric
// (49.90) JSON representations. Values that cannot be parsed are kept as
// invalid instead of failing the whole catalog decode; invalid prices are
// excluded from price-bucket filters and ordered last in price sorts.
type Price struct {
	Amount decimal.Decimal
	Valid  bool
}

func NewPrice(amount decimal.Decimal) Price {
	return Price{Amount: amount, Valid: true}
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		p.Amount = decimal.Zero
		p.Valid = false
		return nil
	}
	p.Amount = d
	p.Valid = true
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Amount.String())
}

// Images accepts either a flat JSON array of URLs or a structured
// {main, gallery, individual_items} object. Both forms appear in the catalog.
type Images struct {
	Main            string   `json:"main,omitempty"`
	Gallery         []string `json:"gallery,omitempty"`
	IndividualItems []string `json:"individual_items,omitempty"`
}

// imageObject avoids UnmarshalJSON recursion when decoding the object form.
type imageObject Images

func (im *Images) UnmarshalJSON(data []byte) error {
	var flat []string
	if err := json.Unmarshal(data, &flat); err == nil {
		if len(flat) > 0 {
			im.Main = flat[0]
		}
		im.Gallery = flat
		im.IndividualItems = nil
		return nil
	}
	var obj imageObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*im = Images(obj)
	return nil
}

// All returns every image reference, main first.
func (im Images) All() []string {
	var out []string
	if im.Main != "" {
		out = append(out, im.Main)
	}
	for _, g := range im.Gallery {
		if g != im.Main {
			out = append(out, g)
		}
	}
	out = append(out, im.IndividualItems...)
	return out
}

// Product is a read-only catalog entry. Identity (ID) is stable; derived
// views (filtered/sorted lists) are new slices over the same values.
type Product struct {
	ID              int       `json:"id"`
	Handle          string    `json:"handle"`
	SKU             string    `json:"sku"`
	VariantID       string    `json:"variant_id"`
	Title           string    `json:"title"`
	Subtitle        string    `json:"subtitle,omitempty"`
	Regular         Price     `json:"regular"`
	Sale            Price     `json:"sale,omitempty"`
	DiscountPercent int       `json:"discount_percent,omitempty"`
	OnSale          bool      `json:"on_sale,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	Brands          []string  `json:"brands,omitempty"`
	PrimaryBrand    string    `json:"primary_brand,omitempty"`
	Category        string    `json:"category,omitempty"`
	Images          Images    `json:"images,omitempty"`
	Popularity      float64   `json:"popularity,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	Featured        bool      `json:"featured,omitempty"`
	NewArrival      bool      `json:"new_arrival,omitempty"`
}

func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CartItem is a cart line. ID is the merge key; VariantID is what the
// external checkout system consumes and may be rewritten post-validation.
type CartItem struct {
	ID        int             `json:"id"`
	VariantID string          `json:"variant_id"`
	Title     string          `json:"title"`
	Subtitle  string          `json:"subtitle,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
}

// CartDraft is the boundary input for adding an item to the cart. Drafts are
// validated before a CartItem is ever created.
type CartDraft struct {
	ID        int    `json:"id" validate:"required,gt=0"`
	VariantID string `json:"variant_id" validate:"required"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Price     Price  `json:"price"`
	Image     string `json:"image"`
}

// CheckoutLine is the unit the external checkout provider accepts.
type CheckoutLine struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// Analytics event names accepted by the sink.
const (
	EventPageView         = "PageView"
	EventViewContent      = "ViewContent"
	EventAddToCart        = "AddToCart"
	EventInitiateCheckout = "InitiateCheckout"
)

// AnalyticsEvent is a best-effort event published to the analytics topic.
type AnalyticsEvent struct {
	Name      string                 `json:"name"`
	SessionID string                 `json:"session_id,omitempty"`
	Params    map[string]interface{} `json:"params,omitempty"`
	Time      time.Time              `json:"time"`
}

// KVEntry backs the durable key/value store.
type KVEntry struct {
	Key       string         `gorm:"primaryKey;size:255"`
	Value     datatypes.JSON `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

// PriceRange is part of the catalog stats payload.
type PriceRange struct {
	Min Price `json:"min"`
	Max Price `json:"max"`
}

// ProductStats summarizes the loaded catalog for the stats endpoint.
type ProductStats struct {
	TotalProducts int        `json:"total_products"`
	OnSale        int        `json:"on_sale"`
	Categories    int        `json:"categories"`
	Brands        int        `json:"brands"`
	PriceRange    PriceRange `json:"price_range"`
}
