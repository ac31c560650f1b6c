package kafka

import (
	"context"
	"fmt"

	"github.com/carvisapp/carvis-backend/pkg/kafka/consumer"
	"github.com/segmentio/kafka-go"
)

type MessageConsumer struct {
	*consumer.Consumer
}

func NewMessageConsumer(consumer *consumer.Consumer) *MessageConsumer {
	return &MessageConsumer{consumer}
}

func (mc *MessageConsumer) ReadMessage(ctx context.Context) (kafka.Message, error) {
	msg, err := mc.Reader.FetchMessage(ctx)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("MessageConsumer - ReadMessage - mc.Reader.FetchMessage: %w", err)
	}

	return msg, nil
}

func (mc *MessageConsumer) CommitMessage(ctx context.Context, msg kafka.Message) error {
	err := mc.Reader.CommitMessages(ctx, msg)
	if err != nil {
		return fmt.Errorf("MessageConsumer - CommitMessage - mc.Reader.CommitMessages: %w", err)
	}

	return nil
}

func (mc *MessageConsumer) Close() error {
	err := mc.Consumer.Close()
	if err != nil {
		return fmt.Errorf("MessageConsumer - Close: %w", err)
	}

	return nil
}
