package storefront

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/analytics"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/catalog"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/checkout"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/kvstore"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/models"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/session"
)

const (
	sessionCookie     = "storefront_session"
	sessionContextKey = "storefront.session"
)

func registerHandlers(e *echo.Echo, cat *catalog.Service, sessions *session.Manager, emitter *analytics.Emitter, handoff *checkout.Handoff, prefs kvstore.Store) {
	e.Use(sessionMiddleware(sessions, emitter))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/api/products", func(c echo.Context) error {
		s := currentSession(c)

		sortKey := c.QueryParam("sort")
		var tokens []string
		if raw := c.QueryParam("filters"); raw != "" {
			for _, t := range strings.Split(raw, ",") {
				if t = strings.TrimSpace(t); t != "" {
					tokens = append(tokens, t)
				}
			}
		}

		// Per-campaign preference: explicit parameters are persisted, a bare
		// request falls back to what the campaign last used.
		campaign, source := s.UTM("utm_campaign"), s.UTM("utm_source")
		if campaign != "" && source != "" {
			key := session.PreferenceKey(viper.GetString("STORE_ID"), campaign, source)
			if sortKey == "" && len(tokens) == 0 {
				if pref, ok := session.LoadPreference(prefs, key); ok {
					sortKey = pref.Sort
					tokens = pref.Filters
				}
			} else {
				session.SavePreference(prefs, key, session.Preference{Sort: sortKey, Filters: tokens})
			}
		}

		products := cat.AllProducts()
		if category := c.QueryParam("category"); category != "" {
			products = cat.ProductsByCategory(category)
		}
		products = catalog.Filter(products, tokens)
		products = catalog.Sort(products, sortKey)

		return c.JSON(http.StatusOK, map[string]interface{}{
			"products": products,
			"count":    len(products),
		})
	})

	e.GET("/api/products/:handle", func(c echo.Context) error {
		s := currentSession(c)
		product, ok := cat.ProductByHandle(c.Param("handle"))
		if !ok {
			logrus.WithField("handle", c.Param("handle")).Warn("Product not found")
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
		}
		emitter.ViewContent(s.ID, product)
		return c.JSON(http.StatusOK, product)
	})

	e.GET("/api/categories", func(c echo.Context) error {
		return c.JSON(http.StatusOK, cat.Categories())
	})

	e.GET("/api/brands", func(c echo.Context) error {
		return c.JSON(http.StatusOK, cat.Brands())
	})

	e.GET("/api/stats", func(c echo.Context) error {
		return c.JSON(http.StatusOK, cat.Stats())
	})

	e.GET("/api/cart", func(c echo.Context) error {
		s := currentSession(c)
		return c.JSON(http.StatusOK, cartView(s))
	})

	e.POST("/api/cart/items", func(c echo.Context) error {
		s := currentSession(c)
		var req struct {
			models.CartDraft
			Quantity int `json:"quantity"`
		}
		if err := c.Bind(&req); err != nil {
			logrus.WithError(err).Error("Invalid add-to-cart request")
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		}
		if req.Quantity < 1 {
			req.Quantity = 1
		}

		if err := s.Cart.AddItem(req.CartDraft, req.Quantity); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		sessions.SaveSnapshot(s)

		view := cartView(s)
		view["open_cart"] = true
		return c.JSON(http.StatusOK, view)
	})

	e.PATCH("/api/cart/items/:id", func(c echo.Context) error {
		s := currentSession(c)
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			logrus.WithError(err).Error("Invalid product ID")
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
		}
		var req struct {
			Delta int `json:"delta"`
		}
		if err := c.Bind(&req); err != nil {
			logrus.WithError(err).Error("Invalid quantity update request")
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		}

		s.Cart.UpdateQuantity(id, req.Delta)
		sessions.SaveSnapshot(s)
		return c.JSON(http.StatusOK, cartView(s))
	})

	e.DELETE("/api/cart/items/:id", func(c echo.Context) error {
		s := currentSession(c)
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			logrus.WithError(err).Error("Invalid product ID")
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
		}

		s.Cart.RemoveItem(id)
		sessions.SaveSnapshot(s)
		return c.JSON(http.StatusOK, cartView(s))
	})

	e.DELETE("/api/cart", func(c echo.Context) error {
		s := currentSession(c)
		s.Cart.Clear()
		sessions.SaveSnapshot(s)
		return c.JSON(http.StatusOK, cartView(s))
	})

	e.POST("/api/checkout", func(c echo.Context) error {
		s := currentSession(c)
		items := s.Cart.Items()
		if len(items) == 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Cart is empty"})
		}

		s.Cart.InitiateCheckout()

		url, err := handoff.CreateCheckout(c.Request().Context(), items, s.UTM("utm_campaign"))
		if err != nil {
			// Single user-visible error; the cart is left untouched.
			logrus.WithError(err).WithField("session_id", s.ID).Error("Checkout handoff failed")
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "Checkout is temporarily unavailable, please try again"})
		}

		return c.JSON(http.StatusOK, map[string]string{"checkout_url": url})
	})

	registerWebhooks(e)
}

func cartView(s *session.Session) map[string]interface{} {
	return map[string]interface{}{
		"items": s.Cart.Items(),
		"total": s.Cart.Total().String(),
	}
}

func sessionMiddleware(sessions *session.Manager, emitter *analytics.Emitter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var id string
			if cookie, err := c.Cookie(sessionCookie); err == nil {
				id = cookie.Value
			}

			s := sessions.GetOrCreate(id)
			if s.ID != id {
				c.SetCookie(&http.Cookie{
					Name:     sessionCookie,
					Value:    s.ID,
					Path:     "/",
					HttpOnly: true,
				})
			}
			sessions.MergeUTM(s, session.CaptureUTM(c.QueryParams()))
			c.Set(sessionContextKey, s)

			if c.Request().Method == http.MethodGet && c.Request().URL.Path != "/health" {
				emitter.PageView(s.ID, c.Request().URL.Path)
			}
			return next(c)
		}
	}
}

func currentSession(c echo.Context) *session.Session {
	s, _ := c.Get(sessionContextKey).(*session.Session)
	return s
}
