// Package sarama publishes settlement events through IBM/sarama for
// deployments that cannot ship librdkafka.
package sarama

import (
	"fmt"
	"time"

	kafkaPkgConfluent "settlement-service/src/pkg/kafka/confluent"
	"settlement-service/src/pkg/log"

	"github.com/IBM/sarama"
	k "gopkg.in/confluentinc/confluent-kafka-go.v1/kafka"
)

type Producer struct {
	producer sarama.SyncProducer
	log      log.Log
}

func NewConfig(kc kafkaPkgConfluent.KafkaConfig) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = kc.AppName
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Retry.Backoff = 500 * time.Millisecond
	cfg.Net.DialTimeout = 5 * time.Second

	if kc.Username != "" {
		cfg.Net.SASL.Enable = true
		cfg.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		cfg.Net.SASL.User = kc.Username
		cfg.Net.SASL.Password = kc.Password
		cfg.Net.TLS.Enable = true
	}
	return cfg
}

func NewProducer(kc kafkaPkgConfluent.KafkaConfig, logger log.Log) (*Producer, error) {
	p, err := sarama.NewSyncProducer(kc.Brokers(), NewConfig(kc))
	if err != nil {
		return nil, fmt.Errorf("create sarama producer: %w", err)
	}
	return &Producer{producer: p, log: logger}, nil
}

// NewFromSyncProducer wraps an existing producer, e.g. sarama/mocks.
func NewFromSyncProducer(p sarama.SyncProducer, logger log.Log) *Producer {
	return &Producer{producer: p, log: logger}
}

func (p *Producer) Publish(message *k.Message) error {
	if message.TopicPartition.Topic == nil {
		return fmt.Errorf("sarama producer: message without topic")
	}
	msg := &sarama.ProducerMessage{
		Topic: *message.TopicPartition.Topic,
		Value: sarama.ByteEncoder(message.Value),
	}
	if len(message.Key) > 0 {
		msg.Key = sarama.ByteEncoder(message.Key)
	}
	for _, h := range message.Headers {
		msg.Headers = append(msg.Headers, sarama.RecordHeader{Key: []byte(h.Key), Value: h.Value})
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return err
	}
	p.log.Info("sarama-producer", "message delivered", "Publish", fmt.Sprintf("%s/%d@%d", msg.Topic, partition, offset))
	return nil
}

func (p *Producer) PublishChannel(topic string, message []byte) {
	_, _, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(message),
	})
	if err != nil {
		p.log.Error("sarama-producer", "failed to publish message", "PublishChannel", err.Error())
	}
}

func (p *Producer) Close() {
	if err := p.producer.Close(); err != nil {
		p.log.Error("sarama-producer", "failed to close producer", "Close", err.Error())
	}
}
