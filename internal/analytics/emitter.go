// Package analytics publishes storefront events to the analytics sink.
// Every call is best-effort: failures are logged and never reach the caller.
package analytics

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/cart"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/models"
)

// Emitter sends analytics events to a Kafka topic. A nil producer disables
// emission entirely, which keeps the storefront usable without a broker.
type Emitter struct {
	producer sarama.SyncProducer
	topic    string
}

func NewEmitter(producer sarama.SyncProducer, topic string) *Emitter {
	return &Emitter{producer: producer, topic: topic}
}

// Emit publishes a single event. It never returns an error and never blocks
// the caller beyond the synchronous produce call.
func (e *Emitter) Emit(event models.AnalyticsEvent) {
	if e == nil || e.producer == nil {
		return
	}
	if event.Time.IsZero() {
		event.Time = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).WithField("event", event.Name).Error("Failed to marshal analytics event")
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: e.topic,
		Key:   sarama.StringEncoder(event.SessionID),
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err := e.producer.SendMessage(msg); err != nil {
		logrus.WithError(err).WithField("event", event.Name).Error("Failed to send analytics event")
		return
	}
}

// PageView reports a page load.
func (e *Emitter) PageView(sessionID, path string) {
	e.Emit(models.AnalyticsEvent{
		Name:      models.EventPageView,
		SessionID: sessionID,
		Params:    map[string]interface{}{"path": path},
	})
}

// ViewContent reports a product detail view.
func (e *Emitter) ViewContent(sessionID string, product models.Product) {
	params := map[string]interface{}{
		"product_id": product.ID,
		"handle":     product.Handle,
	}
	if product.Regular.Valid {
		params["value"] = product.Regular.Amount.String()
	}
	e.Emit(models.AnalyticsEvent{
		Name:      models.EventViewContent,
		SessionID: sessionID,
		Params:    params,
	})
}

// CartSubscriber adapts the emitter into a cart event subscriber for the
// given session. This is the only coupling between cart and analytics.
func (e *Emitter) CartSubscriber(sessionID string) cart.Subscriber {
	return func(ev cart.Event) {
		params := map[string]interface{}{"value": ev.Value.String()}
		for k, v := range ev.Params {
			params[k] = v
		}
		e.Emit(models.AnalyticsEvent{
			Name:      ev.Name,
			SessionID: sessionID,
			Params:    params,
		})
	}
}
