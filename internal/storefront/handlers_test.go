package storefront

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/catalog"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/checkout"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/kvstore"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/session"
)

const handlerFixture = `[
	{
		"id": 1,
		"handle": "sauvage-intense-100ml",
		"title": "Sauvage Intense 100ml",
		"primary_brand": "Dior",
		"category": "perfume",
		"regular": "94.90",
		"tags": ["men", "bestseller"],
		"variant_id": "46545463509847"
	},
	{
		"id": 2,
		"handle": "good-girl-80ml",
		"title": "Good Girl 80ml",
		"brands": ["Carolina Herrera"],
		"category": "perfume",
		"regular": 49.90,
		"tags": ["women"],
		"variant_id": "46545463542615"
	}
]`

type testApp struct {
	echo     *echo.Echo
	sessions *session.Manager
	prefs    kvstore.Store
}

func newTestApp(t *testing.T, checkoutURL string) *testApp {
	t.Helper()

	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(handlerFixture), 0o644))
	cat, err := catalog.NewService(path)
	require.NoError(t, err)

	viper.Set("STORE_ID", "uk-001")
	viper.Set("ANALYSIS_DIR", t.TempDir())

	sessions := session.NewManager(30*time.Minute, kvstore.NewMemoryStore(), nil)
	prefs := kvstore.NewMemoryStore()

	e := echo.New()
	registerHandlers(e, cat, sessions, nil, checkout.NewHandoff(checkoutURL), prefs)
	return &testApp{echo: e, sessions: sessions, prefs: prefs}
}

// do executes a request, carrying the session cookie from a previous response.
func (a *testApp) do(method, target, body string, prev *http.Response) *http.Response {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if prev != nil {
		for _, c := range prev.Cookies() {
			req.AddCookie(c)
		}
	}
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec.Result()
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, "http://unused.invalid")
	resp := app.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProducts_ListAll(t *testing.T) {
	app := newTestApp(t, "http://unused.invalid")
	resp := app.do(http.MethodGet, "/api/products", "", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(2), body["count"])
	assert.NotEmpty(t, resp.Cookies(), "new session must set a cookie")
}

func TestProducts_FilterAndSort(t *testing.T) {
	app := newTestApp(t, "http://unused.invalid")
	resp := app.do(http.MethodGet, "/api/products?filters=women&sort=price-low", "", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["count"])
	products := body["products"].([]interface{})
	first := products[0].(map[string]interface{})
	assert.Equal(t, "good-girl-80ml", first["handle"])
}

func TestProducts_CampaignPreferenceRoundTrip(t *testing.T) {
	app := newTestApp(t, "http://unused.invalid")

	// arrival with UTM attribution plus explicit filters persists the preference
	first := app.do(http.MethodGet,
		"/api/products?utm_campaign=summer&utm_source=meta&filters=men&sort=price-low", "", nil)
	require.Equal(t, http.StatusOK, first.StatusCode)

	key := session.PreferenceKey("uk-001", "summer", "meta")
	pref, ok := session.LoadPreference(app.prefs, key)
	require.True(t, ok)
	assert.Equal(t, "price-low", pref.Sort)
	assert.Equal(t, []string{"men"}, pref.Filters)

	// a bare request in the same session falls back to the stored preference
	second := app.do(http.MethodGet, "/api/products", "", first)
	body := decodeBody(t, second)
	assert.Equal(t, float64(1), body["count"])
	products := body["products"].([]interface{})
	assert.Equal(t, "sauvage-intense-100ml", products[0].(map[string]interface{})["handle"])
}

func TestProductDetail_FoundAndNotFound(t *testing.T) {
	app := newTestApp(t, "http://unused.invalid")

	resp := app.do(http.MethodGet, "/api/products/sauvage-intense-100ml", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["id"])

	resp = app.do(http.MethodGet, "/api/products/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCategoriesBrandsStats(t *testing.T) {
	app := newTestApp(t, "http://unused.invalid")

	resp := app.do(http.MethodGet, "/api/categories", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = app.do(http.MethodGet, "/api/brands", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = app.do(http.MethodGet, "/api/stats", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(2), body["total_products"])
}

func TestCart_FullFlow(t *testing.T) {
	app := newTestApp(t, "http://unused.invalid")

	empty := app.do(http.MethodGet, "/api/cart", "", nil)
	require.Equal(t, http.StatusOK, empty.StatusCode)
	assert.Equal(t, "0", decodeBody(t, empty)["total"])

	added := app.do(http.MethodPost, "/api/cart/items",
		`{"id":1,"variant_id":"46545463509847","title":"Sauvage","price":"94.90","quantity":2}`, empty)
	require.Equal(t, http.StatusOK, added.StatusCode)
	body := decodeBody(t, added)
	assert.Equal(t, true, body["open_cart"])
	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, float64(2), items[0].(map[string]interface{})["quantity"])

	patched := app.do(http.MethodPatch, "/api/cart/items/1", `{"delta":100}`, empty)
	require.Equal(t, http.StatusOK, patched.StatusCode)
	items = decodeBody(t, patched)["items"].([]interface{})
	assert.Equal(t, float64(10), items[0].(map[string]interface{})["quantity"])

	removed := app.do(http.MethodDelete, "/api/cart/items/1", "", empty)
	require.Equal(t, http.StatusOK, removed.StatusCode)
	assert.Empty(t, decodeBody(t, removed)["items"])
}

func TestCart_AddRejectsInvalidDraft(t *testing.T) {
	app := newTestApp(t, "http://unused.invalid")

	resp := app.do(http.MethodPost, "/api/cart/items", `{"title":"no id"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCart_ClearEmptiesEverything(t *testing.T) {
	app := newTestApp(t, "http://unused.invalid")

	first := app.do(http.MethodPost, "/api/cart/items",
		`{"id":1,"variant_id":"46545463509847","price":"10","quantity":1}`, nil)
	require.Equal(t, http.StatusOK, first.StatusCode)

	cleared := app.do(http.MethodDelete, "/api/cart", "", first)
	require.Equal(t, http.StatusOK, cleared.StatusCode)
	assert.Empty(t, decodeBody(t, cleared)["items"])
}

func TestCheckout_EmptyCart(t *testing.T) {
	app := newTestApp(t, "http://unused.invalid")

	resp := app.do(http.MethodPost, "/api/checkout", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckout_ProviderFailureLeavesCartUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()
	app := newTestApp(t, srv.URL)

	added := app.do(http.MethodPost, "/api/cart/items",
		`{"id":1,"variant_id":"46545463509847","price":"94.90","quantity":1}`, nil)
	require.Equal(t, http.StatusOK, added.StatusCode)

	failed := app.do(http.MethodPost, "/api/checkout", "", added)
	require.Equal(t, http.StatusBadGateway, failed.StatusCode)
	assert.Contains(t, decodeBody(t, failed)["error"], "temporarily unavailable")

	cart := app.do(http.MethodGet, "/api/cart", "", added)
	items := decodeBody(t, cart)["items"].([]interface{})
	assert.Len(t, items, 1)
}

func TestCheckout_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"checkout_url": "https://pay.example.com/c/1"})
	}))
	defer srv.Close()
	app := newTestApp(t, srv.URL)

	added := app.do(http.MethodPost, "/api/cart/items",
		`{"id":1,"variant_id":"46545463509847","price":"94.90","quantity":1}`, nil)
	require.Equal(t, http.StatusOK, added.StatusCode)

	resp := app.do(http.MethodPost, "/api/checkout", "", added)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://pay.example.com/c/1", decodeBody(t, resp)["checkout_url"])
}

func TestWebhook_StoresValidJSON(t *testing.T) {
	app := newTestApp(t, "http://unused.invalid")
	dir := viper.GetString("ANALYSIS_DIR")

	resp := app.do(http.MethodPost, "/webhooks/analysis", `{"report":"daily","rows":[1,2,3]}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "stored", body["status"])

	name, _ := body["file"].(string)
	require.NotEmpty(t, name)
	stored, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.JSONEq(t, `{"report":"daily","rows":[1,2,3]}`, string(stored))
}

func TestWebhook_RejectsInvalidJSON(t *testing.T) {
	app := newTestApp(t, "http://unused.invalid")

	resp := app.do(http.MethodPost, "/webhooks/analysis", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
