package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/carvisapp/carvis-backend/config"
	kafkactrl "github.com/carvisapp/carvis-backend/internal/controller/kafka"
	"github.com/carvisapp/carvis-backend/internal/controller/restapi"
	"github.com/carvisapp/carvis-backend/internal/dispatch"
	"github.com/carvisapp/carvis-backend/internal/dto"
	infrakafka "github.com/carvisapp/carvis-backend/internal/infrastructure/kafka"
	"github.com/carvisapp/carvis-backend/internal/infrastructure/processor"
	"github.com/carvisapp/carvis-backend/internal/repo/persistent"
	"github.com/carvisapp/carvis-backend/internal/usecase/car"
	"github.com/carvisapp/carvis-backend/internal/usecase/image"
	"github.com/carvisapp/carvis-backend/internal/usecase/link"
	"github.com/carvisapp/carvis-backend/internal/usecase/user"
	"github.com/carvisapp/carvis-backend/pkg/cache"
	"github.com/carvisapp/carvis-backend/pkg/httpserver"
	"github.com/carvisapp/carvis-backend/pkg/kafka/consumer"
	"github.com/carvisapp/carvis-backend/pkg/kafka/producer"
	"github.com/carvisapp/carvis-backend/pkg/logger"
	"github.com/carvisapp/carvis-backend/pkg/metrics"
	"github.com/carvisapp/carvis-backend/pkg/postgres"
	"github.com/carvisapp/carvis-backend/pkg/s3client"
)

const (
	commandsChannel = "commands"
	eventsChannel   = "events"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Metrics
	m := metrics.New()

	// Repository

	// s3
	s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.S3.CfgLoadTimeout)
	defer s3Cancel()
	s3c, err := s3client.New(s3Ctx, cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - s3client.New: %w", err))
	}

	// postgres
	pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
	}
	defer pg.Close()

	// Kafka Producer
	kafkaProducer, err := producer.New(ctx, cfg.Kafka.Brokers)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - producer.New: %w", err))
	}

	publisher := infrakafka.NewMessagePublisher(kafkaProducer, cfg.Kafka.CommandsTopic, cfg.Kafka.EventsTopic)
	defer publisher.Close()

	// Use-Case

	urlCache := cache.New[dto.ImageURL]()
	defer urlCache.Close()

	imageUseCase := image.New(
		persistent.NewBlobStore(s3c, cfg.S3.Bucket),
		processor.New(),
		urlCache,
		m.ImagesDerived,
		cfg.Images.URLExpiry,
		cfg.Images.CacheTTL,
		l,
	)

	linkUseCase := link.New(persistent.NewLinkRepo(pg), publisher, l)
	carUseCase := car.New(persistent.NewCarRepo(pg), pg, publisher, l)

	activeWindow := user.NewActiveWindow(cfg.Activity.Window)
	userUseCase := user.New(persistent.NewUserRepo(pg), activeWindow, m.SignupsTotal, l)
	m.RegisterActiveUsers(userUseCase.ActiveUsers)

	// Dispatcher
	dispatcher := dispatch.New(l)
	registerHandlers(dispatcher, imageUseCase, linkUseCase, userUseCase, m)

	// Kafka Listeners
	commandListener, err := newListener(
		ctx, cfg, l, commandsChannel, cfg.Kafka.CommandsTopic,
		kafkactrl.CommandHandle(dispatcher), kafkaProducer, m,
	)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - newListener commands: %w", err))
	}

	eventListener, err := newListener(
		ctx, cfg, l, eventsChannel, cfg.Kafka.EventsTopic,
		kafkactrl.EventHandle(dispatcher), kafkaProducer, m,
	)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - newListener events: %w", err))
	}

	// HTTP Server
	httpServer := httpserver.New(l, httpserver.Port(cfg.HTTP.Port), httpserver.Prefork(cfg.HTTP.UsePreforkMode))
	restapi.NewRouter(httpServer.App, cfg, imageUseCase, carUseCase, linkUseCase, userUseCase, publisher, m, l)

	// Start Components
	err = commandListener.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - commandListener.Start: %w", err))
	}
	err = eventListener.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - eventListener.Start: %w", err))
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	clShutdownCtx, clShutdownCancel := context.WithTimeout(ctx, cfg.Listener.ShutdownTimeout)
	defer clShutdownCancel()
	err = commandListener.Shutdown(clShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - commandListener.Shutdown: %w", err))
	}

	elShutdownCtx, elShutdownCancel := context.WithTimeout(ctx, cfg.Listener.ShutdownTimeout)
	defer elShutdownCancel()
	err = eventListener.Shutdown(elShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - eventListener.Shutdown: %w", err))
	}
}

// newListener assembles one channel's consume pipeline: a consumer group
// reader, the retry router for its topic, and the worker-pool controller.
func newListener(
	ctx context.Context,
	cfg *config.Config,
	l logger.Interface,
	channel string,
	topic string,
	handle kafkactrl.HandleFunc,
	kafkaProducer *producer.Producer,
	m *metrics.Metrics,
) (*kafkactrl.ListenerController, error) {
	kafkaConsumer, err := consumer.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.GroupID, topic)
	if err != nil {
		return nil, fmt.Errorf("consumer.New: %w", err)
	}

	retry := infrakafka.NewRetryRouter(kafkaProducer, topic, topic+cfg.Listener.DeadTopicSuffix, cfg.Listener.MaxAttempts)

	return kafkactrl.New(
		channel,
		handle,
		infrakafka.NewMessageConsumer(kafkaConsumer),
		retry,
		l,
		m.MessagesConsumed.WithLabelValues(channel),
		m.MessagesDead.WithLabelValues(channel),
		cfg.Listener.CommitTimeout,
		cfg.Listener.ProcessTimeout,
		cfg.Listener.Workers,
	), nil
}
