package kafka

import (
	"strings"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// SetupConsumer initializes a Kafka consumer for a given topic.
func SetupConsumer(topic string, handler func([]byte)) error {
	brokers := strings.Split(viper.GetString("KAFKA_BROKERS"), ",")
	if len(brokers) == 0 || brokers[0] == "" {
		brokers = []string{"localhost:9092"}
	}

	config := sarama.NewConfig()
	config.Consumer.Return.Errors = true

	consumer, err := sarama.NewConsumer(brokers, config)
	if err != nil {
		logrus.WithError(err).Error("Error creating consumer")
		return err
	}

	partitionConsumer, err := consumer.ConsumePartition(topic, 0, sarama.OffsetNewest)
	if err != nil {
		logrus.WithError(err).Error("Error creating partition consumer")
		return err
	}

	logrus.WithField("topic", topic).Info("Started consuming from topic")
	go func() {
		for {
			select {
			case msg := <-partitionConsumer.Messages():
				handler(msg.Value)
			case err := <-partitionConsumer.Errors():
				logrus.WithError(err).WithField("topic", topic).Error("Error consuming")
			}
		}
	}()
	return nil
}
