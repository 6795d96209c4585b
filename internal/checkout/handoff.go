// Package checkout hands the cart off to the external hosted checkout
// provider. The handoff is fire-once: no retries, and a failure leaves the
// cart untouched for the caller to surface a single user-facing error.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/models"
)

// Handoff posts cart lines to the checkout endpoint and returns the hosted
// checkout URL the client should be redirected to.
type Handoff struct {
	endpoint string
	client   *http.Client
}

func NewHandoff(endpoint string) *Handoff {
	return &Handoff{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type checkoutRequest struct {
	Lines    []models.CheckoutLine `json:"lines"`
	Campaign string                `json:"campaign,omitempty"`
}

type checkoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// CreateCheckout converts the cart lines (order preserved) into a provider
// request, optionally tagged with the campaign attribution string.
func (h *Handoff) CreateCheckout(ctx context.Context, items []models.CartItem, campaign string) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("cannot checkout an empty cart")
	}

	lines := make([]models.CheckoutLine, len(items))
	for i, item := range items {
		lines[i] = models.CheckoutLine{VariantID: item.VariantID, Quantity: item.Quantity}
	}

	body, err := json.Marshal(checkoutRequest{Lines: lines, Campaign: campaign})
	if err != nil {
		return "", fmt.Errorf("failed to marshal checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Checkout handoff failed")
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(resp.Body)
		logrus.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(payload),
		}).Error("Checkout provider rejected the handoff")
		return "", fmt.Errorf("checkout provider returned status %d", resp.StatusCode)
	}

	var out checkoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode checkout response: %w", err)
	}
	if out.CheckoutURL == "" {
		return "", fmt.Errorf("checkout provider returned no redirect URL")
	}

	logrus.WithField("lines", len(lines)).Info("Checkout created")
	return out.CheckoutURL, nil
}
