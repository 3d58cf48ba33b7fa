package config

import (
	kafkaPkgConfluent "settlement-service/src/pkg/kafka/confluent"
	kafkaPkgSarama "settlement-service/src/pkg/kafka/sarama"
	"settlement-service/src/pkg/log"

	"github.com/spf13/viper"
)

func NewKafkaConfig(viper *viper.Viper) kafkaPkgConfluent.KafkaConfig {
	configKafka := kafkaPkgConfluent.Cfg{
		KafkaUrl:      viper.GetString("kafka.bootstrap.servers"),
		KafkaUsername: viper.GetString("kafka.username"),
		KafkaPassword: viper.GetString("kafka.password"),
		KafkaCaCert:   viper.GetString("kafka.cacert"),
		AppName:       viper.GetString("kafka.app.name"),
	}
	return kafkaPkgConfluent.InitKafkaConfig(configKafka)
}

// NewKafkaProducer returns nil when the producer is disabled; events are then
// dropped by the messaging gateway. kafka.driver picks confluent (default) or
// sarama.
func NewKafkaProducer(config *viper.Viper, log log.Log) kafkaPkgConfluent.Producer {
	if !config.GetBool("kafka.producer.enabled") {
		log.Info("kafka-config", "Kafka producer is disabled in configuration", "kafka", "")
		return nil
	}

	if config.GetString("kafka.driver") == "sarama" {
		producer, err := kafkaPkgSarama.NewProducer(kafkaPkgConfluent.GetConfig(), log)
		if err != nil {
			panic(err)
		}
		return producer
	}

	kafkaProducer, err := kafkaPkgConfluent.NewProducer(kafkaPkgConfluent.GetConfig().GetKafkaConfig(), log)
	if err != nil {
		panic(err)
	}

	return kafkaProducer
}
