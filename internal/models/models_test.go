package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_UnmarshalStringAndNumber(t *testing.T) {
	var fromString, fromNumber Price
	require.NoError(t, json.Unmarshal([]byte(`"49.90"`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`49.90`), &fromNumber))

	assert.True(t, fromString.Valid)
	assert.True(t, fromNumber.Valid)
	assert.True(t, fromString.Amount.Equal(fromNumber.Amount))
}

func TestPrice_UnparseableIsInvalidNotFatal(t *testing.T) {
	var p Price
	require.NoError(t, json.Unmarshal([]byte(`"not-a-price"`), &p))
	assert.False(t, p.Valid)
	assert.True(t, p.Amount.IsZero())
}

func TestImages_FlatListForm(t *testing.T) {
	var im Images
	require.NoError(t, json.Unmarshal([]byte(`["/a.jpg","/b.jpg"]`), &im))
	assert.Equal(t, "/a.jpg", im.Main)
	assert.Equal(t, []string{"/a.jpg", "/b.jpg"}, im.Gallery)
	assert.Equal(t, []string{"/a.jpg", "/b.jpg"}, im.All())
}

func TestImages_StructuredForm(t *testing.T) {
	raw := `{"main":"/m.jpg","gallery":["/m.jpg","/g.jpg"],"individual_items":["/i.jpg"]}`
	var im Images
	require.NoError(t, json.Unmarshal([]byte(raw), &im))
	assert.Equal(t, "/m.jpg", im.Main)
	assert.Equal(t, []string{"/m.jpg", "/g.jpg", "/i.jpg"}, im.All())
}

func TestProduct_HasTag(t *testing.T) {
	p := Product{Tags: []string{"men", "bestseller"}}
	assert.True(t, p.HasTag("men"))
	assert.False(t, p.HasTag("women"))
}
