package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/carvisapp/carvis-backend/pkg/logger"
	"github.com/carvisapp/carvis-backend/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchCommand_UnknownTypeIsSkipped(t *testing.T) {
	d := New(logger.New("error"))

	err := d.DispatchCommand(context.Background(), entity.Command{
		Type: entity.CommandType("SOMETHING_NEW"),
		ID:   uuid.New(),
	})

	assert.NoError(t, err)
}

func TestDispatchEvent_NoConsumerIsFatal(t *testing.T) {
	d := New(logger.New("error"))

	err := d.DispatchEvent(context.Background(), entity.Event{
		Type: entity.EventType("SOMETHING_NEW"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNoConsumer)
}

func TestDispatchCommand_AllHandlersRunDespiteFailure(t *testing.T) {
	d := New(logger.New("error"))

	errFirst := errors.New("first failure")
	errSecond := errors.New("second failure")

	var calls []string
	d.OnCommand(entity.CmdDeleteImage, func(ctx context.Context, cmd entity.Command) error {
		calls = append(calls, "a")
		return errFirst
	})
	d.OnCommand(entity.CmdDeleteImage, func(ctx context.Context, cmd entity.Command) error {
		calls = append(calls, "b")
		return errSecond
	})
	d.OnCommand(entity.CmdDeleteImage, func(ctx context.Context, cmd entity.Command) error {
		calls = append(calls, "c")
		return nil
	})

	err := d.DispatchCommand(context.Background(), entity.Command{
		Type: entity.CmdDeleteImage,
		ID:   uuid.New(),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errFirst)
	assert.NotErrorIs(t, err, errSecond)
	assert.Equal(t, []string{"a", "b", "c"}, calls)
}

func TestDispatchEvent_HandlersRunInRegistrationOrder(t *testing.T) {
	d := New(logger.New("error"))

	var calls []string
	d.OnEvent(entity.EvtCarDeleted,
		func(ctx context.Context, evt entity.Event) error {
			calls = append(calls, "images")
			return nil
		},
		func(ctx context.Context, evt entity.Event) error {
			calls = append(calls, "links")
			return nil
		},
	)

	err := d.DispatchEvent(context.Background(), entity.Event{
		Type:  entity.EvtCarDeleted,
		CarID: uuid.New(),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"images", "links"}, calls)
}

func TestDispatchEvent_FailingHandlerDoesNotStopOthers(t *testing.T) {
	d := New(logger.New("error"))

	errImages := errors.New("cleanup failed")

	linksRan := false
	d.OnEvent(entity.EvtCarDeleted,
		func(ctx context.Context, evt entity.Event) error {
			return errImages
		},
		func(ctx context.Context, evt entity.Event) error {
			linksRan = true
			return nil
		},
	)

	err := d.DispatchEvent(context.Background(), entity.Event{Type: entity.EvtCarDeleted})

	require.Error(t, err)
	assert.ErrorIs(t, err, errImages)
	assert.True(t, linksRan)
}
