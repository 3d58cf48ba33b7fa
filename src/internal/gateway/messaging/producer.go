package messaging

import (
	"encoding/json"

	"settlement-service/src/internal/model"
	kafka "settlement-service/src/pkg/kafka/confluent"
	"settlement-service/src/pkg/log"

	k "gopkg.in/confluentinc/confluent-kafka-go.v1/kafka"
)

const HeaderEventID = "event-id"

type Producer[T model.Event] struct {
	Producer kafka.Producer
	Topic    string
	Log      log.Log
}

func (p *Producer[T]) GetTopic() *string {
	return &p.Topic
}

// Send publishes event keyed by its aggregate, so every event of one booking
// or wallet lands on the same partition in commit order. The event id travels
// as the event-id header for consumer side dedup. A producer without a client
// (kafka disabled) drops the event.
func (p *Producer[T]) Send(event T) error {
	if p.Producer == nil {
		p.Log.Info("gateway/messaging/producer", "kafka producer disabled, event dropped", p.Topic, event.GetId())
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.Log.Error("gateway/messaging/producer", "failed to marshal event", "Send", err.Error())
		return err
	}

	message := &k.Message{
		TopicPartition: k.TopicPartition{Topic: &p.Topic, Partition: k.PartitionAny},
		Key:            []byte(event.GetKey()),
		Value:          value,
		Headers:        []k.Header{{Key: HeaderEventID, Value: []byte(event.GetId())}},
	}

	err = p.Producer.Publish(message)
	if err != nil {
		p.Log.Error("send-event", "error send message", p.Topic, err.Error())
		return err
	}

	return nil
}
