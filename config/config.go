package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		HTTP     HTTP
		Log      Log
		PG       PG
		S3       S3
		Kafka    Kafka
		Listener Listener
		Images   Images
		Activity Activity
		Metrics  Metrics
		Swagger  Swagger
	}

	HTTP struct {
		Port           string `env:"HTTP_PORT,required"`
		UsePreforkMode bool   `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	PG struct {
		PoolMax int    `env:"PG_POOL_MAX,required"`
		URL     string `env:"PG_URL,required"`
	}

	S3 struct {
		Endpoint       string        `env:"S3_ENDPOINT,required"`
		AccessKey      string        `env:"S3_ACCESS_KEY,required"`
		SecretKey      string        `env:"S3_SECRET_KEY,required"`
		Bucket         string        `env:"S3_BUCKET,required"`
		CfgLoadTimeout time.Duration `env:"S3_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	Kafka struct {
		Brokers       []string `env:"KAFKA_BROKERS,required"`
		GroupID       string   `env:"KAFKA_GROUP_ID,required"`
		CommandsTopic string   `env:"KAFKA_COMMANDS_TOPIC,required"`
		EventsTopic   string   `env:"KAFKA_EVENTS_TOPIC,required"`
	}

	Listener struct {
		CommitTimeout   time.Duration `env:"LISTENER_COMMIT_TIMEOUT" envDefault:"2s"`
		ProcessTimeout  time.Duration `env:"LISTENER_PROCESS_TIMEOUT" envDefault:"15s"` // whole operation: storage and DB round-trips plus image scaling
		ShutdownTimeout time.Duration `env:"LISTENER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
		Workers         int           `env:"LISTENER_WORKERS" envDefault:"4"`
		MaxAttempts     int           `env:"LISTENER_MAX_ATTEMPTS" envDefault:"3"`
		DeadTopicSuffix string        `env:"LISTENER_DEAD_TOPIC_SUFFIX" envDefault:".dlq"`
	}

	Images struct {
		URLExpiry time.Duration `env:"IMAGES_URL_EXPIRY" envDefault:"12h"`
		CacheTTL  time.Duration `env:"IMAGES_CACHE_TTL" envDefault:"1h"`
	}

	Activity struct {
		Window time.Duration `env:"ACTIVITY_WINDOW" envDefault:"15m"`
	}

	Metrics struct {
		Enabled bool `env:"METRICS_ENABLED" envDefault:"true"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}
