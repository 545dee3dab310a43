package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// MessageHandler processes a single message. eventType comes from the
// event_type header and is empty for messages written without one.
type MessageHandler func(ctx context.Context, eventType string, key, value []byte) error

type Consumer struct {
	reader *kafka.Reader
	log    *logrus.Entry
}

func NewConsumer(brokers []string, topic, groupID string, log *logrus.Entry) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader, log: log}
}

// Consume reads messages until the context is cancelled. Handler errors
// are logged and the message is skipped; the loop never stops on them.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.log.WithError(err).Warn("failed to read message")
				continue
			}

			eventType := ""
			for _, h := range msg.Headers {
				if h.Key == "event_type" {
					eventType = string(h.Value)
					break
				}
			}

			if err := handler(ctx, eventType, msg.Key, msg.Value); err != nil {
				c.log.WithError(err).WithFields(logrus.Fields{
					"event_type": eventType,
					"key":        string(msg.Key),
				}).Warn("failed to handle message")
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
