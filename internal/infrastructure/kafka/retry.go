package kafka

import (
	"context"
	"fmt"
	"strconv"

	"github.com/carvisapp/carvis-backend/pkg/kafka/producer"
	"github.com/segmentio/kafka-go"
)

// DeliveryAttemptHeader counts how many times a message has failed
// processing and been requeued.
const DeliveryAttemptHeader = "delivery_attempt"

// RetryRouter implements the channel's redelivery policy: a failed message
// is requeued on its own topic with the attempt counter bumped, until the
// bound is reached and it is parked on the dead-letter topic instead. A
// message that exhausts its retries is never dropped.
type RetryRouter struct {
	*producer.Producer
	topic       string
	dlqTopic    string
	maxAttempts int
}

func NewRetryRouter(p *producer.Producer, topic, dlqTopic string, maxAttempts int) *RetryRouter {
	return &RetryRouter{
		Producer:    p,
		topic:       topic,
		dlqTopic:    dlqTopic,
		maxAttempts: maxAttempts,
	}
}

// Route requeues or dead-letters the failed message. It reports whether
// the message went to the dead-letter topic.
func (rr *RetryRouter) Route(ctx context.Context, msg kafka.Message) (deadLettered bool, err error) {
	attempt := DeliveryAttempt(msg) + 1

	target := rr.topic
	if attempt >= rr.maxAttempts {
		target = rr.dlqTopic
		deadLettered = true
	}

	requeued := kafka.Message{
		Topic: target,
		Key:   msg.Key,
		Value: msg.Value,
		Headers: append(stripAttemptHeader(msg.Headers), kafka.Header{
			Key:   DeliveryAttemptHeader,
			Value: []byte(strconv.Itoa(attempt)),
		}),
	}

	err = rr.Writer.WriteMessages(ctx, requeued)
	if err != nil {
		return false, fmt.Errorf("RetryRouter - Route - rr.Writer.WriteMessages: %w", err)
	}

	return deadLettered, nil
}

func DeliveryAttempt(msg kafka.Message) int {
	for _, h := range msg.Headers {
		if h.Key == DeliveryAttemptHeader {
			n, err := strconv.Atoi(string(h.Value))
			if err != nil {
				return 0
			}
			return n
		}
	}

	return 0
}

func stripAttemptHeader(headers []kafka.Header) []kafka.Header {
	out := make([]kafka.Header, 0, len(headers))
	for _, h := range headers {
		if h.Key != DeliveryAttemptHeader {
			out = append(out, h)
		}
	}

	return out
}
