package dispatch

import (
	"context"
	"fmt"

	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/carvisapp/carvis-backend/pkg/logger"
	"github.com/carvisapp/carvis-backend/pkg/types/errs"
)

type (
	CommandHandler func(ctx context.Context, cmd entity.Command) error
	EventHandler   func(ctx context.Context, evt entity.Event) error
)

// Dispatcher fans one inbound message out to the handlers registered for
// its type. Handlers run sequentially in registration order; a failing
// handler never stops the remaining ones, but any failure fails the whole
// message so the transport's redelivery policy kicks in. Every handler
// must therefore tolerate re-invocation with the same message.
type Dispatcher struct {
	commands map[entity.CommandType][]CommandHandler
	events   map[entity.EventType][]EventHandler

	logger logger.Interface
}

func New(l logger.Interface) *Dispatcher {
	return &Dispatcher{
		commands: make(map[entity.CommandType][]CommandHandler),
		events:   make(map[entity.EventType][]EventHandler),
		logger:   l,
	}
}

// Registration happens once at startup; the dispatcher is read-only after.

func (d *Dispatcher) OnCommand(t entity.CommandType, handlers ...CommandHandler) {
	d.commands[t] = append(d.commands[t], handlers...)
}

func (d *Dispatcher) OnEvent(t entity.EventType, handlers ...EventHandler) {
	d.events[t] = append(d.events[t], handlers...)
}

// DispatchCommand treats an unknown command type as a non-fatal no-op:
// "nobody wants this message" is a different failure class than "somebody
// tried and failed".
func (d *Dispatcher) DispatchCommand(ctx context.Context, cmd entity.Command) error {
	handlers := d.commands[cmd.Type]
	if len(handlers) == 0 {
		d.logger.Warn("Dispatcher - DispatchCommand - no handler for type=%s, skipping", cmd.Type)

		return nil
	}

	var firstErr error
	for _, h := range handlers {
		if err := h(ctx, cmd); err != nil {
			d.logger.Error(fmt.Errorf("Dispatcher - DispatchCommand - handler failed, type=%s id=%s: %w", cmd.Type, cmd.ID, err))

			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr != nil {
		return fmt.Errorf("Dispatcher - DispatchCommand - type=%s: %w", cmd.Type, firstErr)
	}

	return nil
}

// DispatchEvent is the stricter family: every event is expected to have at
// least one owner, so an empty consumer list is fatal for the message.
func (d *Dispatcher) DispatchEvent(ctx context.Context, evt entity.Event) error {
	handlers := d.events[evt.Type]
	if len(handlers) == 0 {
		return fmt.Errorf("Dispatcher - DispatchEvent - type=%s: %w", evt.Type, errs.ErrNoConsumer)
	}

	var firstErr error
	for _, h := range handlers {
		if err := h(ctx, evt); err != nil {
			d.logger.Error(fmt.Errorf("Dispatcher - DispatchEvent - handler failed, type=%s: %w", evt.Type, err))

			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr != nil {
		return fmt.Errorf("Dispatcher - DispatchEvent - type=%s: %w", evt.Type, firstErr)
	}

	return nil
}
