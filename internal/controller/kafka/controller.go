package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	infrakafka "github.com/carvisapp/carvis-backend/internal/infrastructure/kafka"
	"github.com/carvisapp/carvis-backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"
)

// HandleFunc decodes and dispatches one inbound message. An error means
// the message failed as a whole and goes through the redelivery policy.
type HandleFunc func(ctx context.Context, msg kafka.Message) error

// ListenerController pulls one channel's messages off the transport and
// feeds them to a worker pool. A message is committed only after it was
// either fully handled or safely requeued/dead-lettered, keeping delivery
// at-least-once end to end.
type ListenerController struct {
	channel string
	handle  HandleFunc
	mc      *infrakafka.MessageConsumer
	retry   *infrakafka.RetryRouter
	logger  logger.Interface

	consumed prometheus.Counter
	dead     prometheus.Counter

	commitTimeout  time.Duration
	processTimeout time.Duration

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	started atomic.Bool
}

func New(
	channel string,
	handle HandleFunc,
	mc *infrakafka.MessageConsumer,
	retry *infrakafka.RetryRouter,
	l logger.Interface,
	consumed prometheus.Counter,
	dead prometheus.Counter,
	commitTimeout time.Duration,
	processTimeout time.Duration,
	workers int,
) *ListenerController {
	return &ListenerController{
		channel:        channel,
		handle:         handle,
		mc:             mc,
		retry:          retry,
		logger:         l,
		consumed:       consumed,
		dead:           dead,
		commitTimeout:  commitTimeout,
		processTimeout: processTimeout,
		workers:        workers,
	}
}

func (c *ListenerController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return fmt.Errorf("ListenerController - Start - controller already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	tasks := make(chan kafka.Message, c.workers*2)

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(tasks)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(tasks)

		for {
			select {
			case <-c.ctx.Done():
				return
			default:
				msg, err := c.mc.ReadMessage(c.ctx)
				if err != nil {
					if !errors.Is(err, context.Canceled) {
						c.logger.Error(fmt.Errorf("ListenerController - Start - c.mc.ReadMessage, channel=%s: %w", c.channel, err))
					}
					continue
				}

				select {
				case tasks <- msg:
				case <-c.ctx.Done():
					return
				}
			}
		}
	}()

	return nil
}

func (c *ListenerController) worker(tasks <-chan kafka.Message) {
	defer c.wg.Done()

	for msg := range tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error(fmt.Errorf("ListenerController - worker - panic recovered, channel=%s: %v", c.channel, r))
				}
			}()

			processCtx, processCancel := context.WithTimeout(c.ctx, c.processTimeout)
			err := c.handle(processCtx, msg)
			processCancel()

			if err != nil {
				c.logger.Error(fmt.Errorf("ListenerController - worker - c.handle, channel=%s: %w", c.channel, err))

				// requeue or dead-letter, then commit the failed original
				routeCtx, routeCancel := context.WithTimeout(c.ctx, c.commitTimeout)
				deadLettered, routeErr := c.retry.Route(routeCtx, msg)
				routeCancel()
				if routeErr != nil {
					// leave uncommitted; the transport redelivers
					c.logger.Error(fmt.Errorf("ListenerController - worker - c.retry.Route, channel=%s: %w", c.channel, routeErr))

					return
				}

				if deadLettered {
					c.dead.Inc()
					c.logger.Warn("ListenerController - worker - message dead-lettered, channel=%s attempt=%d", c.channel, infrakafka.DeliveryAttempt(msg)+1)
				}
			} else {
				c.consumed.Inc()
			}

			commitCtx, commitCancel := context.WithTimeout(c.ctx, c.commitTimeout)
			err = c.mc.CommitMessage(commitCtx, msg)
			commitCancel()
			if err != nil {
				c.logger.Error(fmt.Errorf("ListenerController - worker - c.mc.CommitMessage, channel=%s: %w", c.channel, err))
			}
		}()
	}
}

func (c *ListenerController) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		c.mc.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}
