package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/carvisapp/carvis-backend/internal/dispatch"
	"github.com/carvisapp/carvis-backend/internal/entity"
	infrakafka "github.com/carvisapp/carvis-backend/internal/infrastructure/kafka"
	"github.com/segmentio/kafka-go"
)

// CommandHandle decodes a command-channel message (type tag in the body)
// and runs it through the dispatcher.
func CommandHandle(d *dispatch.Dispatcher) HandleFunc {
	return func(ctx context.Context, msg kafka.Message) error {
		var cmd entity.Command
		if err := json.Unmarshal(msg.Value, &cmd); err != nil {
			return fmt.Errorf("CommandHandle - json.Unmarshal: %w", err)
		}

		return d.DispatchCommand(ctx, cmd)
	}
}

// EventHandle decodes an event-channel message; the type tag travels in
// the transport header, the body holds only the variant payload.
func EventHandle(d *dispatch.Dispatcher) HandleFunc {
	return func(ctx context.Context, msg kafka.Message) error {
		var evt entity.Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			return fmt.Errorf("EventHandle - json.Unmarshal: %w", err)
		}

		evt.Type = entity.EventType(headerValue(msg.Headers, infrakafka.EventTypeHeader))
		if evt.Type == "" {
			return fmt.Errorf("EventHandle - missing %s header", infrakafka.EventTypeHeader)
		}

		return d.DispatchEvent(ctx, evt)
	}
}

func headerValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}

	return ""
}
