package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/models"
)

// Sort keys accepted by the product listing endpoints.
const (
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortNameAZ    = "name-az"
	SortNameZA    = "name-za"
	SortNewest    = "newest"
	SortPopular   = "popular"
	SortFeatured  = "featured"
)

// Collection tokens matched verbatim against product tags.
var collectionTokens = map[string]bool{
	"new-in":     true,
	"bestseller": true,
	"gift-set":   true,
	"premium":    true,
	"offers":     true,
}

var (
	price50  = decimal.NewFromInt(50)
	price100 = decimal.NewFromInt(100)
)

// Sort returns a reordered copy of products. The input is never mutated.
// Unknown keys and "featured" keep the original catalog order. Products with
// unparseable prices sort last under both price orderings.
func Sort(products []models.Product, key string) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)

	switch key {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return lessByPrice(out[i], out[j], true) })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return lessByPrice(out[i], out[j], false) })
	case SortNameAZ:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	case SortNameZA:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) > strings.ToLower(out[j].Title)
		})
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	case SortPopular:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Popularity > out[j].Popularity })
	}
	return out
}

func lessByPrice(a, b models.Product, ascending bool) bool {
	if !a.Regular.Valid {
		return false
	}
	if !b.Regular.Valid {
		return true
	}
	if ascending {
		return a.Regular.Amount.LessThan(b.Regular.Amount)
	}
	return a.Regular.Amount.GreaterThan(b.Regular.Amount)
}

// Filter retains products matching any of the tokens (logical OR). An empty
// token set means "no filter" and returns the input unchanged.
func Filter(products []models.Product, tokens []string) []models.Product {
	if len(tokens) == 0 {
		return products
	}

	var out []models.Product
	for _, p := range products {
		for _, token := range tokens {
			if matchesToken(p, token) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// matchesToken interprets a token by fixed precedence: brand pattern, price
// bucket, gender tag, collection tag. Unrecognized tokens never match.
func matchesToken(p models.Product, token string) bool {
	if isBrandToken(token) && matchesBrand(p, token) {
		return true
	}

	switch token {
	case "under-50":
		return p.Regular.Valid && p.Regular.Amount.LessThan(price50)
	case "50-100":
		return p.Regular.Valid &&
			p.Regular.Amount.GreaterThanOrEqual(price50) &&
			p.Regular.Amount.LessThanOrEqual(price100)
	case "over-100":
		return p.Regular.Valid && p.Regular.Amount.GreaterThan(price100)
	case "men", "women":
		return p.HasTag(token)
	}

	if collectionTokens[token] {
		return p.HasTag(token)
	}
	return false
}

// isBrandToken: hyphenated tokens are brand patterns unless they are one of
// the reserved hyphenated collection tokens.
func isBrandToken(token string) bool {
	return strings.Contains(token, "-") && token != "new-in" && token != "gift-set"
}

func matchesBrand(p models.Product, token string) bool {
	needle := strings.ToLower(strings.ReplaceAll(token, "-", " "))
	for _, b := range p.Brands {
		if strings.Contains(strings.ToLower(b), needle) {
			return true
		}
	}
	if strings.Contains(strings.ToLower(p.PrimaryBrand), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), needle)
}
