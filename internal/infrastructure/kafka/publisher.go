package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/carvisapp/carvis-backend/pkg/kafka/producer"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// EventTypeHeader carries the event family's type tag out-of-band; the
// JSON body holds only the variant's payload fields.
const EventTypeHeader = "event_type"

// MessagePublisher is the produce side of both channels. Commands go to
// the command topic with the type inside the body; events go to the event
// topic with the type in a header.
type MessagePublisher struct {
	*producer.Producer
	commandsTopic string
	eventsTopic   string
}

func NewMessagePublisher(p *producer.Producer, commandsTopic, eventsTopic string) *MessagePublisher {
	return &MessagePublisher{
		Producer:      p,
		commandsTopic: commandsTopic,
		eventsTopic:   eventsTopic,
	}
}

func (mp *MessagePublisher) PublishImageDeleted(ctx context.Context, imageID uuid.UUID) error {
	return mp.publishCommand(ctx, entity.Command{
		Type: entity.CmdDeleteImage,
		ID:   imageID,
	})
}

// PublishImagesDeleted fans out to one message per image, not a batch
// message. The loop fails fast: a transport error aborts the remaining
// publishes and surfaces to the caller.
func (mp *MessagePublisher) PublishImagesDeleted(ctx context.Context, imageIDs []uuid.UUID) error {
	for _, id := range imageIDs {
		if err := mp.PublishImageDeleted(ctx, id); err != nil {
			return err
		}
	}

	return nil
}

func (mp *MessagePublisher) PublishImageAssignedToCar(ctx context.Context, carID, imageID uuid.UUID) error {
	return mp.publishCommand(ctx, entity.Command{
		Type:           entity.CmdAssignImageToCar,
		ID:             carID,
		AdditionalData: imageID.String(),
	})
}

func (mp *MessagePublisher) PublishImagesAssignedToCar(ctx context.Context, carID uuid.UUID, imageIDs []uuid.UUID) error {
	for _, id := range imageIDs {
		if err := mp.PublishImageAssignedToCar(ctx, carID, id); err != nil {
			return err
		}
	}

	return nil
}

func (mp *MessagePublisher) PublishCarDeleted(ctx context.Context, carID uuid.UUID, imageIDs []uuid.UUID) error {
	return mp.publishEvent(ctx, carID.String(), entity.Event{
		Type:     entity.EvtCarDeleted,
		CarID:    carID,
		ImageIDs: imageIDs,
	})
}

func (mp *MessagePublisher) PublishShareableLinkVisited(ctx context.Context, reference string) error {
	return mp.publishEvent(ctx, reference, entity.Event{
		Type:      entity.EvtShareableLinkVisited,
		Reference: reference,
	})
}

func (mp *MessagePublisher) PublishUserSignup(ctx context.Context, userID, email, name string) error {
	return mp.publishEvent(ctx, userID, entity.Event{
		Type:   entity.EvtUserSignup,
		UserID: userID,
		Email:  email,
		Name:   name,
	})
}

func (mp *MessagePublisher) publishCommand(ctx context.Context, cmd entity.Command) error {
	b, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("MessagePublisher - publishCommand - json.Marshal: %w", err)
	}

	err = mp.Writer.WriteMessages(ctx, kafka.Message{
		Topic: mp.commandsTopic,
		Key:   []byte(cmd.ID.String()),
		Value: b,
	})
	if err != nil {
		return fmt.Errorf("MessagePublisher - publishCommand - mp.Writer.WriteMessages: %w", err)
	}

	return nil
}

func (mp *MessagePublisher) publishEvent(ctx context.Context, key string, evt entity.Event) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("MessagePublisher - publishEvent - json.Marshal: %w", err)
	}

	err = mp.Writer.WriteMessages(ctx, kafka.Message{
		Topic: mp.eventsTopic,
		Key:   []byte(key),
		Value: b,
		Headers: []kafka.Header{
			{Key: EventTypeHeader, Value: []byte(evt.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("MessagePublisher - publishEvent - mp.Writer.WriteMessages: %w", err)
	}

	return nil
}

func (mp *MessagePublisher) Close() error {
	err := mp.Producer.Close()
	if err != nil {
		return fmt.Errorf("MessagePublisher - Close: %w", err)
	}

	return nil
}
