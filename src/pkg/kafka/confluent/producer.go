package kafka

import (
	"fmt"

	"settlement-service/src/pkg/log"

	k "gopkg.in/confluentinc/confluent-kafka-go.v1/kafka"
)

type confluentProducer struct {
	producer *k.Producer
	log      log.Log
}

func NewProducer(cfg *k.ConfigMap, logger log.Log) (Producer, error) {
	p, err := k.NewProducer(cfg)
	if err != nil {
		return nil, fmt.Errorf("create confluent producer: %w", err)
	}
	cp := &confluentProducer{producer: p, log: logger}
	go cp.drainEvents()
	return cp, nil
}

// Publish blocks until the broker acknowledged the message.
func (c *confluentProducer) Publish(message *k.Message) error {
	delivery := make(chan k.Event, 1)
	if err := c.producer.Produce(message, delivery); err != nil {
		return err
	}
	e := <-delivery
	m, ok := e.(*k.Message)
	if !ok {
		return fmt.Errorf("unexpected delivery event %T", e)
	}
	return m.TopicPartition.Error
}

// PublishChannel is fire and forget; failures surface in drainEvents.
func (c *confluentProducer) PublishChannel(topic string, message []byte) {
	err := c.producer.Produce(&k.Message{
		TopicPartition: k.TopicPartition{Topic: &topic, Partition: k.PartitionAny},
		Value:          message,
	}, nil)
	if err != nil {
		c.log.Error("kafka-producer", "failed to enqueue message", "PublishChannel", err.Error())
	}
}

func (c *confluentProducer) drainEvents() {
	for e := range c.producer.Events() {
		switch ev := e.(type) {
		case *k.Message:
			if ev.TopicPartition.Error != nil {
				c.log.Error("kafka-producer", "delivery failed", "drainEvents", ev.TopicPartition.Error.Error())
			}
		case k.Error:
			c.log.Error("kafka-producer", "producer error", "drainEvents", ev.Error())
		}
	}
}

func (c *confluentProducer) Close() {
	c.producer.Flush(5000)
	c.producer.Close()
}
