package kafka

import (
	"github.com/IBM/sarama"
)

const (
	// RentalTopic carries rental lifecycle events (started / returned)
	// for downstream consumers such as a statistics service.
	RentalTopic = "rental-events"
)

type Config struct {
	Addrs []string `yaml:"addrs" envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}
