package kds

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"github.com/yeremiapane/restaurant-manager/utils"
)

// KafkaNotifier forwards events to a topic keyed by event name. Writes are
// asynchronous so a slow broker never delays a request.
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			Async:                  true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					utils.ErrorLogger.WithField("messages", len(messages)).Errorf("Failed to publish to kafka: %v", err)
				}
			},
		},
	}
}

func (k *KafkaNotifier) Notify(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling %s message: %v", event, err)
		return
	}

	if err := k.writer.WriteMessages(context.Background(), kafka.Message{Key: []byte(event), Value: payload}); err != nil {
		utils.ErrorLogger.WithField("event", event).Errorf("Failed to queue kafka message: %v", err)
	}
}

// Close flushes pending messages.
func (k *KafkaNotifier) Close() error {
	return k.writer.Close()
}
