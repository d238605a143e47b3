package service

import (
	"encoding/json"
	"time"

	"github.com/bookhall/lending-service/internal/model"
	"github.com/bookhall/lending-service/pkg/kafka"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type Enqueuer interface {
	Enqueue(topic string, v any) error
}

func NewEnqueuer(producer sarama.SyncProducer) Enqueuer {
	return &enqueuerImpl{
		producer: producer,
	}
}

type enqueuerImpl struct {
	producer sarama.SyncProducer
}

func (q *enqueuerImpl) Enqueue(topic string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: topic, Value: sarama.StringEncoder(data)}
	if _, _, err = q.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}

// publishEvent is best-effort: a broker outage must not fail the rental.
func (s *Service) publishEvent(eventType string, rental model.Rental, at time.Time) {
	if s.enq == nil {
		return
	}
	ev := model.RentalEvent{
		Type:       eventType,
		RentalUID:  rental.RentalUID,
		BookID:     rental.BookID,
		UserID:     rental.UserID,
		OccurredAt: at,
	}
	if err := s.enq.Enqueue(kafka.RentalTopic, ev); err != nil {
		s.log.Warn("publish rental event", zap.String("type", eventType), zap.Error(err))
	}
}
