// Package kafka provides functionality for interacting with Apache Kafka
// message broker. It carries the analytics event stream between the
// storefront and the analysis service.
package kafka

import (
	"strings"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// SetupProducer initializes and configures a synchronous Kafka producer.
//
// Environment Variables:
//   - KAFKA_BROKERS: Comma-separated list of Kafka broker addresses (default: localhost:9092)
//
// Analytics delivery is best-effort, so an unreachable broker is returned as
// an error for the caller to degrade on instead of aborting the process.
func SetupProducer() (sarama.SyncProducer, error) {
	brokers := strings.Split(viper.GetString("KAFKA_BROKERS"), ",")
	if len(brokers) == 0 || brokers[0] == "" {
		brokers = []string{"localhost:9092"}
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		logrus.WithError(err).Error("Failed to create Kafka producer")
		return nil, err
	}

	logrus.WithField("brokers", brokers).Info("Kafka producer initialized")
	return producer, nil
}
