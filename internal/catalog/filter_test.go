package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/models"
)

func product(id int, title, price string, tags ...string) models.Product {
	p := models.Product{ID: id, Title: title, Tags: tags}
	if price != "" {
		p.Regular = models.NewPrice(decimal.RequireFromString(price))
	}
	return p
}

func ids(products []models.Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestFilter_EmptyTokensReturnsInputUnchanged(t *testing.T) {
	in := []models.Product{product(1, "A", "10"), product(2, "B", "20")}
	out := Filter(in, nil)
	assert.Equal(t, ids(in), ids(out))
}

func TestFilter_ORSemanticsAcrossTokens(t *testing.T) {
	in := []models.Product{
		product(1, "A", "10", "men"),
		product(2, "B", "20", "women"),
		product(3, "C", "30"),
	}

	men := Filter(in, []string{"men"})
	both := Filter(in, []string{"men", "women"})

	assert.Equal(t, []int{1}, ids(men))
	assert.Equal(t, []int{1, 2}, ids(both))
	// every match for the narrower token set is kept by the wider one
	for _, id := range ids(men) {
		assert.Contains(t, ids(both), id)
	}
}

func TestFilter_PriceBuckets(t *testing.T) {
	in := []models.Product{
		product(1, "Cheap", "49.99"),
		product(2, "Edge50", "50"),
		product(3, "Edge100", "100"),
		product(4, "Dear", "100.01"),
	}

	assert.Equal(t, []int{1}, ids(Filter(in, []string{"under-50"})))
	assert.Equal(t, []int{2, 3}, ids(Filter(in, []string{"50-100"})))
	assert.Equal(t, []int{4}, ids(Filter(in, []string{"over-100"})))
}

func TestFilter_StringAndNumericPricesBucketIdentically(t *testing.T) {
	raw := `[
		{"id":1,"title":"String","regular":"49.90"},
		{"id":2,"title":"Number","regular":49.90},
		{"id":3,"title":"Dear","regular":"120"}
	]`
	var in []models.Product
	require.NoError(t, json.Unmarshal([]byte(raw), &in))

	under := Filter(in, []string{"under-50"})
	assert.Equal(t, []int{1, 2}, ids(under))
}

func TestFilter_UnparseablePriceExcludedFromBuckets(t *testing.T) {
	var broken models.Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":9,"title":"X","regular":"n/a"}`), &broken))
	in := []models.Product{product(1, "A", "10"), broken}

	assert.Equal(t, []int{1}, ids(Filter(in, []string{"under-50"})))
	assert.Empty(t, ids(Filter(in, []string{"over-100"})))
}

func TestFilter_BrandTokenMatchesBrandListPrimaryAndTitle(t *testing.T) {
	in := []models.Product{
		{ID: 1, Title: "Something", Brands: []string{"Carolina Herrera"}},
		{ID: 2, Title: "Other", PrimaryBrand: "Carolina Herrera"},
		{ID: 3, Title: "Carolina Herrera Good Girl"},
		{ID: 4, Title: "Unrelated", Brands: []string{"Dior"}},
	}

	out := Filter(in, []string{"carolina-herrera"})
	assert.Equal(t, []int{1, 2, 3}, ids(out))
}

func TestFilter_ReservedHyphenatedTokensAreCollections(t *testing.T) {
	in := []models.Product{
		{ID: 1, Title: "New In Body Mist", Tags: []string{"women"}},
		{ID: 2, Title: "Boxed", Tags: []string{"gift-set"}},
		{ID: 3, Title: "Fresh", Tags: []string{"new-in"}},
	}

	// gift-set and new-in must match tags verbatim, never as brand patterns
	assert.Equal(t, []int{2}, ids(Filter(in, []string{"gift-set"})))
	assert.Equal(t, []int{3}, ids(Filter(in, []string{"new-in"})))
}

func TestFilter_GenderAndCollectionTokensMatchTagsVerbatim(t *testing.T) {
	in := []models.Product{
		product(1, "A", "10", "men", "bestseller"),
		product(2, "B", "20", "women", "premium"),
		product(3, "C", "30", "offers"),
	}

	assert.Equal(t, []int{1}, ids(Filter(in, []string{"bestseller"})))
	assert.Equal(t, []int{2}, ids(Filter(in, []string{"premium"})))
	assert.Equal(t, []int{3}, ids(Filter(in, []string{"offers"})))
	assert.Equal(t, []int{2}, ids(Filter(in, []string{"women"})))
}

func TestFilter_UnrecognizedTokenMatchesNothing(t *testing.T) {
	in := []models.Product{product(1, "A", "10", "men")}
	assert.Empty(t, ids(Filter(in, []string{"unicorn"})))
}

func TestSort_FeaturedKeepsOriginalOrder(t *testing.T) {
	in := []models.Product{product(3, "C", "30"), product(1, "A", "10"), product(2, "B", "20")}

	assert.Equal(t, []int{3, 1, 2}, ids(Sort(in, SortFeatured)))
	assert.Equal(t, []int{3, 1, 2}, ids(Sort(in, "")))
	assert.Equal(t, []int{3, 1, 2}, ids(Sort(in, "bogus")))
}

func TestSort_ByPrice(t *testing.T) {
	var broken models.Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":4,"title":"X","regular":"n/a"}`), &broken))
	in := []models.Product{product(1, "A", "30"), product(2, "B", "10"), product(3, "C", "20"), broken}

	assert.Equal(t, []int{2, 3, 1, 4}, ids(Sort(in, SortPriceLow)))
	assert.Equal(t, []int{1, 3, 2, 4}, ids(Sort(in, SortPriceHigh)))
}

func TestSort_StringAndNumericPricesSortIdentically(t *testing.T) {
	raw := `[
		{"id":1,"title":"A","regular":"80"},
		{"id":2,"title":"B","regular":49.90},
		{"id":3,"title":"C","regular":"49.90"}
	]`
	var in []models.Product
	require.NoError(t, json.Unmarshal([]byte(raw), &in))

	out := Sort(in, SortPriceLow)
	assert.Equal(t, []int{2, 3, 1}, ids(out))
}

func TestSort_ByName(t *testing.T) {
	in := []models.Product{product(1, "banana", ""), product(2, "Apple", ""), product(3, "cherry", "")}

	assert.Equal(t, []int{2, 1, 3}, ids(Sort(in, SortNameAZ)))
	assert.Equal(t, []int{3, 1, 2}, ids(Sort(in, SortNameZA)))
}

func TestSort_NewestAndPopular(t *testing.T) {
	now := time.Now()
	older := product(1, "A", "")
	older.CreatedAt = now.Add(-48 * time.Hour)
	newer := product(2, "B", "")
	newer.CreatedAt = now
	newer.Popularity = 10
	in := []models.Product{older, newer}

	assert.Equal(t, []int{2, 1}, ids(Sort(in, SortNewest)))
	// missing popularity counts as zero
	assert.Equal(t, []int{2, 1}, ids(Sort(in, SortPopular)))
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	in := []models.Product{product(2, "B", "20"), product(1, "A", "10")}
	_ = Sort(in, SortPriceLow)
	assert.Equal(t, []int{2, 1}, ids(in))
}
