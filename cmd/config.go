package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"marketplace"`
	DBSslMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	StripeAPIKey string `envconfig:"STRIPE_API_KEY" required:"true"`

	KafkaBrokers           []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaNotificationTopic string   `envconfig:"KAFKA_NOTIFICATION_TOPIC" default:"marketplace.notifications"`

	OutboxRelaySchedule    string `envconfig:"OUTBOX_RELAY_SCHEDULE" default:"*/5 * * * * *"`
	OutboxRelayBatchSize   int    `envconfig:"OUTBOX_RELAY_BATCH_SIZE" default:"100"`
	OutboxRelayConcurrency int    `envconfig:"OUTBOX_RELAY_CONCURRENCY" default:"8"`

	DefaultDeliveryBusinessDays int    `envconfig:"DEFAULT_DELIVERY_BUSINESS_DAYS" default:"5"`
	Currency                    string `envconfig:"CURRENCY" default:"USD"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig reads the configuration from the environment. Variables in the
// given .env files are loaded first when the files exist; variables already
// set in the environment win.
func LoadConfig(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
